package naming

import "fmt"

// Naming functions for stage resources.

func Function(app, stage string) string {
	return fmt.Sprintf("%s-email-sender-%s", app, stage)
}

func ExecutionRole(app, stage string) string {
	return fmt.Sprintf("%s-email-sender-%s-role", app, stage)
}

func SecurityGroup(app, stage string) string {
	return fmt.Sprintf("%s-email-sender-%s-sg", app, stage)
}

func ScheduleRule(app, stage string) string {
	return fmt.Sprintf("%s-email-sender-%s-schedule", app, stage)
}

func Stack(prefix, stage string) string {
	return fmt.Sprintf("%s-%s", prefix, stage)
}

// TemplateKey is the object key a stage template is uploaded under.
func TemplateKey(prefix, stage, changeSet string) string {
	return fmt.Sprintf("templates/%s/%s.template.json", Stack(prefix, stage), changeSet)
}

// Logical ids inside a stage template.
const (
	LogicalSecurityGroup    = "WorkerSecurityGroup"
	LogicalExecutionRole    = "WorkerExecutionRole"
	LogicalFunction         = "EmailSenderFunction"
	LogicalScheduleRule     = "EmailSenderSchedule"
	LogicalInvokePermission = "EmailSenderScheduleInvokePermission"
)
