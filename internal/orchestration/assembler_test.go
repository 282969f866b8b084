package orchestration

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/provisioning/compute"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
	"github.com/imamik/mailcron/internal/util/tags"
)

// countingLookup serves a fixed handle and counts backend calls.
type countingLookup struct {
	calls int
	err   error
}

func (l *countingLookup) LookupNetwork(_ context.Context, id string) (*provisioning.NetworkHandle, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return &provisioning.NetworkHandle{
		ID:                id,
		VpcID:             id,
		SubnetIDs:         []string{"subnet-a", "subnet-b"},
		AvailabilityZones: []string{"eu-central-1a", "eu-central-1b"},
	}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Account:       "123456789012",
		Region:        "eu-central-1",
		ParameterName: "/mailcron/smtp",
		Network:       config.NetworkConfig{ID: "vpc-0abc", Shared: true},
		Worker:        config.WorkerConfig{CodeBucket: "artifacts", CodeKey: "worker.zip"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func testRegistry() *config.Registry {
	entry := func(stage config.Stage, url string) config.StageConfig {
		return config.StageConfig{
			Settings: config.Settings{Stage: stage, APIBaseURL: url},
			Tags:     config.StandardTags{ApplicationTag: "mailcron", BillingServiceTag: "email-notifications", Stage: stage},
		}
	}
	return config.MustNewRegistry(
		entry(config.StageStaging, "https://test.example/api"),
		entry(config.StageProduction, "https://prod.example/api"),
	)
}

func functionEnv(res *StageResult) map[string]string {
	fn := res.Template.Resource(naming.LogicalFunction)
	Expect(fn).NotTo(BeNil())
	env := fn.Properties["Environment"].(map[string]any)
	return env["Variables"].(map[string]string)
}

var _ = Describe("Assembler", func() {
	var (
		ctx    context.Context
		cfg    *config.Config
		lookup *countingLookup
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = testConfig()
		lookup = &countingLookup{}
	})

	Context("with the default pipeline", func() {
		var result *Result

		JustBeforeEach(func() {
			var err error
			result, err = NewAssembler(cfg, testRegistry(), lookup, WithMetrics(provisioning.NewMetrics())).Assemble(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("assembles every stage in deployment order", func() {
			Expect(result.Stages).To(HaveLen(2))
			Expect(result.Stages[0].Stage).To(Equal(config.StageStaging))
			Expect(result.Stages[1].Stage).To(Equal(config.StageProduction))
			Expect(result.Succeeded()).To(HaveLen(2))
		})

		It("configures the staging worker for the test API with redirected mail", func() {
			env := functionEnv(result.Stage(config.StageStaging))
			Expect(env).To(HaveKeyWithValue(compute.EnvStage, "staging"))
			Expect(env).To(HaveKeyWithValue(compute.EnvAPIBaseURL, "https://test.example/api"))
			Expect(env).To(HaveKeyWithValue(compute.EnvOverwriteOutgoingEmails, compute.NonProductionEmailRedirect))
		})

		It("configures the production worker without a redirect", func() {
			env := functionEnv(result.Stage(config.StageProduction))
			Expect(env).To(HaveKeyWithValue(compute.EnvStage, "production"))
			Expect(env).To(HaveKeyWithValue(compute.EnvAPIBaseURL, "https://prod.example/api"))
			Expect(env[compute.EnvOverwriteOutgoingEmails]).To(BeEmpty())
		})

		It("gives each stage distinct resource names", func() {
			names := map[string]bool{}
			for _, st := range result.Stages {
				for _, id := range st.Template.LogicalIDs() {
					props := st.Template.Resource(id).Properties
					for _, key := range []string{"FunctionName", "RoleName", "GroupName", "Name"} {
						if v, ok := props[key].(string); ok {
							Expect(names).NotTo(HaveKey(v), "duplicate name %s", v)
							names[v] = true
						}
					}
				}
			}
			Expect(names).To(HaveKey("mailcron-email-sender-staging"))
			Expect(names).To(HaveKey("mailcron-email-sender-production"))
		})

		It("declares exactly one schedule per stage targeting its own function", func() {
			for _, st := range result.Stages {
				Expect(st.Template.CountByType()[template.TypeEventsRule]).To(Equal(1))
				rule := st.Template.Resource(naming.LogicalScheduleRule)
				Expect(rule.Properties["ScheduleExpression"]).To(Equal("rate(5 minutes)"))
				Expect(st.State.Function.Stage).To(Equal(st.Stage.String()))
				Expect(st.Template.Validate()).To(Succeed())
			}
		})

		It("tags every taggable resource with the stage's standard tags", func() {
			for _, st := range result.Stages {
				want := tags.Build(config.StandardTags{ApplicationTag: "mailcron", BillingServiceTag: "email-notifications", Stage: st.Stage})
				for _, id := range st.Template.LogicalIDs() {
					r := st.Template.Resource(id)
					if !template.Taggable(r.Type) {
						continue
					}
					Expect(r.Tags()).To(Equal(map[string]string(want)), "resource %s", id)
				}
				Expect(st.StackTags).To(HaveKeyWithValue(tags.KeyEnvironment, st.Stage.String()))
				Expect(st.StackTags).To(HaveKeyWithValue(tags.KeyServiceType, st.Stage.String()))
			}
		})

		It("looks the shared network up once", func() {
			Expect(lookup.calls).To(Equal(1))
			Expect(result.Lookups).To(Equal(1))
			Expect(result.Stages[0].State.Network).To(BeIdenticalTo(result.Stages[1].State.Network))
		})

		When("the network is not shared", func() {
			BeforeEach(func() {
				cfg.Network.Shared = false
			})

			It("looks the network up per stage", func() {
				Expect(lookup.calls).To(Equal(2))
				Expect(result.Lookups).To(Equal(2))
			})
		})

		It("names stacks from the stack prefix", func() {
			Expect(result.Stage(config.StageStaging).StackName).To(Equal("mailcron-staging"))
			Expect(result.Stage(config.StageProduction).StackName).To(Equal("mailcron-production"))
		})
	})

	When("the network cannot be resolved", func() {
		It("fails every stage with a resolution error", func() {
			lookup.err = fmt.Errorf("gone: %w", provisioning.ErrNotFound)
			result, err := NewAssembler(cfg, testRegistry(), lookup).Assemble(ctx)

			Expect(err).To(HaveOccurred())
			Expect(provisioning.IsResolutionError(err)).To(BeTrue())
			Expect(result.Succeeded()).To(BeEmpty())
			Expect(err.Error()).To(ContainSubstring("stage staging"))
			Expect(err.Error()).To(ContainSubstring("stage production"))
		})

		It("does not repeat the failed lookup for the second stage", func() {
			lookup.err = fmt.Errorf("gone: %w", provisioning.ErrNotFound)
			result, err := NewAssembler(cfg, testRegistry(), lookup).Assemble(ctx)

			Expect(err).To(HaveOccurred())
			Expect(lookup.calls).To(Equal(1))
			Expect(result.Lookups).To(Equal(1))
		})
	})

	When("one stage fails", func() {
		It("still assembles the other stage", func() {
			failProduction := func() []provisioning.Phase {
				phases := DefaultPhases()
				return append(phases, provisioning.PhaseFunc{
					PhaseName: "guard",
					Fn: func(pctx *provisioning.Context) error {
						if pctx.Stage.Stage().IsProduction() {
							return errors.New("refused")
						}
						return nil
					},
				})
			}

			result, err := NewAssembler(cfg, testRegistry(), lookup, WithPhases(failProduction)).Assemble(ctx)
			Expect(err).To(MatchError(ContainSubstring("stage production: guard phase failed: refused")))
			Expect(result.Succeeded()).To(HaveLen(1))
			Expect(result.Succeeded()[0].Stage).To(Equal(config.StageStaging))
		})
	})

	When("the registry is narrowed to one stage", func() {
		It("assembles only that stage", func() {
			reg, err := testRegistry().Select(config.StageProduction)
			Expect(err).NotTo(HaveOccurred())

			result, err := NewAssembler(cfg, reg, lookup).Assemble(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stages).To(HaveLen(1))
			Expect(result.Stage(config.StageStaging)).To(BeNil())
		})
	})

	It("requires a network lookup", func() {
		_, err := NewAssembler(cfg, testRegistry(), nil).Assemble(ctx)
		Expect(err).To(MatchError(ContainSubstring("no network lookup")))
	})
})

var _ = Describe("NetworkLookup", func() {
	It("uses the pinned handle when subnets are cached", func() {
		cfg := testConfig()
		cfg.Network.SubnetIDs = []string{"subnet-1"}

		lookup, source := NetworkLookup(cfg, &countingLookup{})
		Expect(source).To(Equal("cache"))

		h, err := lookup.LookupNetwork(context.Background(), "vpc-0abc")
		Expect(err).NotTo(HaveOccurred())
		Expect(h.SubnetIDs).To(Equal([]string{"subnet-1"}))
	})

	It("falls back to the live backend", func() {
		live := &countingLookup{}
		lookup, source := NetworkLookup(testConfig(), live)
		Expect(source).To(Equal("lookup"))
		Expect(lookup).To(BeIdenticalTo(live))
	})
})
