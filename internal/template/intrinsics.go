package template

// Ref returns a {"Ref": logicalID} intrinsic.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt returns a {"Fn::GetAtt": [logicalID, attr]} intrinsic.
func GetAtt(logicalID, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attr}}
}

// Sub returns a {"Fn::Sub": expr} intrinsic.
func Sub(expr string) map[string]any {
	return map[string]any{"Fn::Sub": expr}
}

// Pseudo parameters.
const (
	AccountID = "AWS::AccountId"
	Region    = "AWS::Region"
	Partition = "AWS::Partition"
	StackName = "AWS::StackName"
)

// collectRefs walks v and returns the logical ids referenced by Ref and
// Fn::GetAtt. Pseudo parameters are skipped.
func collectRefs(v any) []string {
	var refs []string
	var walk func(any)
	walk = func(v any) {
		switch x := v.(type) {
		case map[string]any:
			if id, ok := x["Ref"].(string); ok && len(x) == 1 && !isPseudo(id) {
				refs = append(refs, id)
				return
			}
			if args, ok := x["Fn::GetAtt"].([]any); ok && len(x) == 1 && len(args) > 0 {
				if id, ok := args[0].(string); ok {
					refs = append(refs, id)
				}
				return
			}
			for _, child := range x {
				walk(child)
			}
		case []any:
			for _, child := range x {
				walk(child)
			}
		case []map[string]any:
			for _, child := range x {
				walk(child)
			}
		}
	}
	walk(v)
	return refs
}

func isPseudo(id string) bool {
	switch id {
	case AccountID, Region, Partition, StackName, "AWS::URLSuffix", "AWS::NoValue":
		return true
	}
	return false
}
