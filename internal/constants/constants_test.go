package constants

import (
	"testing"
)

func TestDefaultValues(t *testing.T) {
	if DefaultPort != "8080" {
		t.Errorf("Expected DefaultPort to be '8080', got '%s'", DefaultPort)
	}

	if DefaultDBDriver != DriverSQLite {
		t.Errorf("Expected DefaultDBDriver to be '%s', got '%s'", DriverSQLite, DefaultDBDriver)
	}

	if DefaultDBDSN == "" {
		t.Error("DefaultDBDSN should not be empty")
	}
}

func TestSuggestLimits(t *testing.T) {
	if SuggestLimit != 12 {
		t.Errorf("Expected SuggestLimit 12, got %d", SuggestLimit)
	}
	if SuggestPerType != 4 {
		t.Errorf("Expected SuggestPerType 4, got %d", SuggestPerType)
	}
	if MinPrefixLength != 2 || MaxPrefixLength != 120 {
		t.Errorf("Expected prefix range 2..120, got %d..%d", MinPrefixLength, MaxPrefixLength)
	}
}
