package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TradeSignal is the categorical output of the spread signal generator.
type TradeSignal string

const (
	// TradeSignalBuy is emitted when the market price trades at a discount to NAV.
	TradeSignalBuy TradeSignal = "Buy"
	// TradeSignalSell is emitted when the market price trades at a premium to NAV.
	TradeSignalSell TradeSignal = "Sell"
	// TradeSignalHold is emitted when the dislocation is inside the threshold or undefined.
	TradeSignalHold TradeSignal = "Hold"
)

// String implements fmt.Stringer.
func (s TradeSignal) String() string {
	return string(s)
}

// ParseTradeSignal parses a trade signal case-insensitively.
func ParseTradeSignal(value string) (TradeSignal, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy":
		return TradeSignalBuy, nil
	case "sell":
		return TradeSignalSell, nil
	case "hold":
		return TradeSignalHold, nil
	default:
		return "", fmt.Errorf("unknown trade signal %q", value)
	}
}

// UnmarshalYAML rejects values other than Buy, Sell and Hold.
func (s *TradeSignal) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	signal, err := ParseTradeSignal(raw)
	if err != nil {
		return err
	}

	*s = signal

	return nil
}
