package integrator_test

// PatchStrategy's test double is a hand-written fake (fake_strategy_test.go)
// rather than mockgen output, since it is large and most tests only care
// about call counts. GriddingCollaborator's double (mock_integrator_test.go)
// is a hand-authored gomock mock in the shape mockgen would generate for it
// — mockgen itself was not run as part of building this module, since doing
// so requires the Go toolchain (see DESIGN.md). The directive below
// documents the generation command the teacher's own packages use
// (api/api_suite_test.go, core/core_suite_test.go) for when a real mock
// regeneration pass is run, which would replace mock_integrator_test.go
// with its generated equivalent.
//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_integrator_test.go github.com/sarchlab/amrmesh/integrator PatchStrategy,GriddingCollaborator

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIntegrator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integrator Suite")
}
