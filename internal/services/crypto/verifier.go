package crypto

import (
	"context"
	"regexp"

	"vendora/internal/models"
)

var txHashPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{16,128}$`)

// DevVerifier stands in for a chain explorer client in development and
// single-node deployments: any well-formed hash is accepted. Production
// deployments plug in a real chain client behind the same interface.
type DevVerifier struct{}

func NewDevVerifier() *DevVerifier {
	return &DevVerifier{}
}

func (v *DevVerifier) VerifyTransaction(_ context.Context, _ *models.PaymentTransaction, txHash string) (bool, error) {
	return txHashPattern.MatchString(txHash), nil
}
