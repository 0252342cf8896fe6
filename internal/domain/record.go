package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DeploymentRecord is the persisted summary of one successful deployment run
type DeploymentRecord struct {
	Network             string
	FactoryAddress      common.Address
	MainContractAddress common.Address
	FeeRecipient        common.Address
	DeployerAddress     common.Address
	Timestamp           time.Time
}

// recordJSON fixes key order and address formatting of the persisted file
type recordJSON struct {
	Network             string `json:"network" yaml:"network"`
	FactoryAddress      string `json:"factoryAddress" yaml:"factoryAddress"`
	MainContractAddress string `json:"mainContractAddress" yaml:"mainContractAddress"`
	FeeRecipient        string `json:"feeRecipient" yaml:"feeRecipient"`
	DeployerAddress     string `json:"deployerAddress" yaml:"deployerAddress"`
	Timestamp           string `json:"timestamp" yaml:"timestamp"`
}

// MarshalJSON writes checksummed addresses and an ISO-8601 timestamp
func (r DeploymentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toWire())
}

// UnmarshalJSON reads the persisted form back
func (r *DeploymentRecord) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return r.fromWire(w)
}

// MarshalYAML renders the same keys as the JSON form
func (r DeploymentRecord) MarshalYAML() (any, error) {
	return r.toWire(), nil
}

func (r DeploymentRecord) toWire() recordJSON {
	return recordJSON{
		Network:             r.Network,
		FactoryAddress:      r.FactoryAddress.Hex(),
		MainContractAddress: r.MainContractAddress.Hex(),
		FeeRecipient:        r.FeeRecipient.Hex(),
		DeployerAddress:     r.DeployerAddress.Hex(),
		Timestamp:           r.Timestamp.UTC().Format(TimestampLayout),
	}
}

func (r *DeploymentRecord) fromWire(w recordJSON) error {
	addrs := []struct {
		field string
		value string
		dst   *common.Address
	}{
		{"factoryAddress", w.FactoryAddress, &r.FactoryAddress},
		{"mainContractAddress", w.MainContractAddress, &r.MainContractAddress},
		{"feeRecipient", w.FeeRecipient, &r.FeeRecipient},
		{"deployerAddress", w.DeployerAddress, &r.DeployerAddress},
	}
	for _, a := range addrs {
		if !common.IsHexAddress(a.value) {
			return fmt.Errorf("invalid %s %q", a.field, a.value)
		}
		*a.dst = common.HexToAddress(a.value)
	}

	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", w.Timestamp, err)
	}

	r.Network = w.Network
	r.Timestamp = ts
	return nil
}
