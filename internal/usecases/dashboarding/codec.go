package dashboarding

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func EncodeLayout(layout *domain.DashboardLayout) ([]byte, error) {
	data, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar layout: %w", err)
	}
	return data, nil
}

// DecodeLayout decodifica e valida um snapshot; qualquer falha é domain.ErrInvalidLayout
func DecodeLayout(data []byte) (*domain.DashboardLayout, error) {
	var layout domain.DashboardLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}

	return &layout, nil
}
