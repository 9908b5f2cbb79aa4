package share_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestShareInvariants(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "share invariant suite")
}
