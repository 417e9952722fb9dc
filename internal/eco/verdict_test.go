package eco

import "testing"

func TestEvaluateClaim(t *testing.T) {
	tests := []struct {
		name         string
		req          VerifyRequest
		wantVerified bool
	}{
		{
			name: "label and description backed by keywords",
			req: VerifyRequest{
				Name:        "Bamboo Cup",
				Description: "A reusable cup made from organic bamboo.",
				ClaimLabel:  "bamboo",
			},
			wantVerified: true,
		},
		{
			name: "non-eco label is rejected even with eco description",
			req: VerifyRequest{
				Name:        "Travel Mug",
				Description: "Made from recycled steel.",
				ClaimLabel:  "premium quality",
			},
			wantVerified: false,
		},
		{
			name: "eco label without supporting text is rejected",
			req: VerifyRequest{
				Name:        "Travel Mug",
				Description: "A mug for travelling.",
				ClaimLabel:  "organic cotton",
			},
			wantVerified: false,
		},
		{
			name:         "empty request",
			req:          VerifyRequest{},
			wantVerified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateClaim(tt.req)
			if got.Verified != tt.wantVerified {
				t.Errorf("Verified = %v, want %v (verdict %+v)", got.Verified, tt.wantVerified, got)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("Confidence out of range: %v", got.Confidence)
			}
			if got.Label != tt.req.ClaimLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.req.ClaimLabel)
			}
		})
	}
}

func TestEvaluateClaimConfidenceGrowsWithEvidence(t *testing.T) {
	weak := EvaluateClaim(VerifyRequest{
		Description: "made from bamboo",
		ClaimLabel:  "bamboo",
	})
	strong := EvaluateClaim(VerifyRequest{
		Description: "compostable, biodegradable and made from organic bamboo",
		ClaimLabel:  "bamboo",
	})

	if strong.Confidence <= weak.Confidence {
		t.Errorf("expected more evidence to raise confidence: weak=%v strong=%v",
			weak.Confidence, strong.Confidence)
	}
}
