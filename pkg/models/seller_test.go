package models

import "testing"

func TestAdvancedDetailsValidate(t *testing.T) {
	tests := []struct {
		name         string
		req          AdvancedDetailsRequest
		wantProblems int
	}{
		{
			name: "unbranded with valid categories",
			req: AdvancedDetailsRequest{
				SellerType: SellerTypeUnbranded,
				Categories: []string{"fashion", "home"},
			},
		},
		{
			name: "branded needs gst and source details",
			req: AdvancedDetailsRequest{
				SellerType: SellerTypeBranded,
				Categories: []string{"fashion"},
			},
			wantProblems: 2,
		},
		{
			name: "branded with gst and source is fine",
			req: AdvancedDetailsRequest{
				SellerType:    SellerTypeBranded,
				Categories:    []string{"electronics"},
				GstNumber:     "22AAAAA0000A1Z5",
				SourceDetails: "direct from manufacturer",
			},
		},
		{
			name: "unknown category rejected",
			req: AdvancedDetailsRequest{
				SellerType: SellerTypeUnbranded,
				Categories: []string{"fashion", "weapons"},
			},
			wantProblems: 1,
		},
		{
			name: "no categories",
			req: AdvancedDetailsRequest{
				SellerType: SellerTypeUnbranded,
			},
			wantProblems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.Validate()
			if len(got) != tt.wantProblems {
				t.Errorf("Validate() = %v, want %d problems", got, tt.wantProblems)
			}
		})
	}
}
