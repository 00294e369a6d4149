package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestBloodInventoryMetricsJSONInfiniteDaysOfSupply(t *testing.T) {
	metrics := BloodInventoryMetrics{
		BloodType:     ABNegative,
		CurrentStock:  12,
		SafetyStock:   0,
		ReorderPoint:  0,
		EOQ:           1,
		DailyDemand:   0,
		DaysOfSupply:  math.Inf(1),
		WastageRate:   0,
		ShelfLifeDays: 35,
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal() into map error = %v", err)
	}
	if value, ok := wire["days_of_supply"]; !ok || value != nil {
		t.Errorf("days_of_supply = %v, want null", value)
	}

	var decoded BloodInventoryMetrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !math.IsInf(decoded.DaysOfSupply, 1) {
		t.Errorf("decoded DaysOfSupply = %v, want +Inf", decoded.DaysOfSupply)
	}
	if decoded.BloodType != ABNegative || decoded.EOQ != 1 || decoded.CurrentStock != 12 {
		t.Errorf("decoded = %+v, lost sibling fields", decoded)
	}
}

func TestBloodInventoryMetricsJSONFiniteDaysOfSupply(t *testing.T) {
	metrics := BloodInventoryMetrics{
		BloodType:    OPositive,
		CurrentStock: 120,
		DailyDemand:  10,
		DaysOfSupply: 12,
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"days_of_supply":12`) {
		t.Errorf("Marshal() = %s, want days_of_supply 12", data)
	}

	var decoded BloodInventoryMetrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.DaysOfSupply != 12 {
		t.Errorf("decoded DaysOfSupply = %v, want 12", decoded.DaysOfSupply)
	}
}

func TestDemandForecastPointKeepsZeroLowerBound(t *testing.T) {
	point := DemandForecastPoint{
		Date:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PredictedDemand: 1.2,
		LowerBound:      0,
		UpperBound:      3.4,
		HasBounds:       true,
	}

	data, err := json.Marshal(point)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"lower_bound":0`) {
		t.Errorf("Marshal() = %s, want explicit lower_bound 0", data)
	}
}
