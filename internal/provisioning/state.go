package provisioning

// NetworkHandle references a pre-existing VPC. It is never created or
// destroyed by mailcron and may be shared by every stage of one run.
type NetworkHandle struct {
	ID                string   // stable identifier the handle was resolved from
	VpcID             string   // resolved VPC id
	CIDR              string   // primary IPv4 CIDR block
	SubnetIDs         []string // private subnets used for placement
	AvailabilityZones []string // zones of SubnetIDs, same order
	Account           string
	Region            string
}

// FunctionRef exposes a declared compute unit as an invocation target.
type FunctionRef struct {
	LogicalID string
	Name      string
	Stage     string
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Network results (populated by the network phase)
	Network       *NetworkHandle
	SecurityGroup string // logical id of the stage security group

	// Compute results (populated by the compute phase)
	Function *FunctionRef
	Role     string // logical id of the execution role

	// Schedule results (populated by the schedule phase)
	Rule string // logical id of the schedule rule

	// Units lists every taggable unit, in declaration order.
	Units []Unit
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// AddUnit records a unit for tag propagation.
func (s *State) AddUnit(u Unit) {
	s.Units = append(s.Units, u)
}
