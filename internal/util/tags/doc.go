// Package tags builds and applies the standard tag set of a stage.
//
// Every provisioning unit of a stage carries the same four keys
// (ApplicationID, Billing-Service, Service-Type, Environment). The set is
// computed once from [config.StandardTags] by [Build] and attached to each
// unit with a single [Apply] call.
package tags
