package verification

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

type fakeSources struct {
	contractName string
}

func (f fakeSources) SourceInput(domain.ContractID) (*artifacts.SourceInput, error) {
	return &artifacts.SourceInput{
		CompilerVersion: "v0.8.20+commit.a1b79de6",
		StandardJSON:    json.RawMessage(`{"language":"Solidity"}`),
		ContractName:    f.contractName,
	}, nil
}

func (fakeSources) EncodeConstructorArgs(domain.ContractID, ...any) (string, error) {
	return "000000000000000000000000000000000000000000000000000000000000000d", nil
}

// explorerStub answers submissions and status checks from scripted responses
type explorerStub struct {
	mu       sync.Mutex
	submits  []etherscanResponse
	statuses []etherscanResponse
	forms    []url.Values
	polls    int
}

func (s *explorerStub) next(queue *[]etherscanResponse) etherscanResponse {
	resp := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return resp
}

func (s *explorerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp etherscanResponse
	switch r.Form.Get("action") {
	case "verifysourcecode":
		s.forms = append(s.forms, r.PostForm)
		resp = s.next(&s.submits)
	case "checkverifystatus":
		s.polls++
		resp = s.next(&s.statuses)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *explorerStub) submitted() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.forms...)
}

func (s *explorerStub) pollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

func newTestVerifier(t *testing.T, stub *explorerStub, apiKey string) *EtherscanVerifier {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	cfg := &config.RuntimeConfig{
		Network: &config.Network{Name: "bsctestnet", ChainID: 97, ExplorerURL: "https://testnet.bscscan.com"},
		Verification: config.VerificationConfig{
			APIKey:     apiKey,
			APIURL:     server.URL,
			MaxElapsed: 2 * time.Second,
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEtherscanVerifier(cfg, fakeSources{}, log,
		WithRetryInterval(10*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
}

func factoryRequest() domain.VerificationRequest {
	return domain.VerificationRequest{
		Address:              common.HexToAddress("0x000000000000000000000000000000000000000F"),
		ConstructorArguments: []any{common.HexToAddress("0x000000000000000000000000000000000000000D")},
		Contract:             domain.FactoryContract,
	}
}

func TestEtherscanVerifier_Verify(t *testing.T) {
	t.Run("submits and polls until verified", func(t *testing.T) {
		stub := &explorerStub{
			submits: []etherscanResponse{{Status: "1", Message: "OK", Result: "guid-1"}},
			statuses: []etherscanResponse{
				{Status: "0", Message: "NOTOK", Result: "Pending in queue"},
				{Status: "1", Message: "OK", Result: "Pass - Verified"},
			},
		}
		v := newTestVerifier(t, stub, "key")

		receipt, err := v.Verify(context.Background(), factoryRequest())
		require.NoError(t, err)
		assert.Equal(t, "guid-1", receipt.GUID)
		assert.Equal(t, "Pass - Verified", receipt.Message)
		assert.False(t, receipt.AlreadyVerified)
		assert.Equal(t, "https://testnet.bscscan.com/address/0x000000000000000000000000000000000000000F#code", receipt.ExplorerURL)
		assert.Equal(t, 2, stub.pollCount())

		forms := stub.submitted()
		require.Len(t, forms, 1)
		form := forms[0]
		assert.Equal(t, "key", form.Get("apikey"))
		assert.Equal(t, "97", form.Get("chainid"))
		assert.Equal(t, "solidity-standard-json-input", form.Get("codeformat"))
		assert.Equal(t, "contracts/src/PumpFunFactory.sol:PumpFunFactory", form.Get("contractname"))
		assert.Equal(t, "v0.8.20+commit.a1b79de6", form.Get("compilerversion"))
		assert.Equal(t, "000000000000000000000000000000000000000000000000000000000000000d", form.Get("constructorArguements"))
		assert.Equal(t, `{"language":"Solidity"}`, form.Get("sourceCode"))
	})

	t.Run("contract name follows the compiled source path", func(t *testing.T) {
		stub := &explorerStub{
			submits:  []etherscanResponse{{Status: "1", Result: "guid-src"}},
			statuses: []etherscanResponse{{Status: "1", Result: "Pass - Verified"}},
		}
		v := newTestVerifier(t, stub, "key")
		v.sources = fakeSources{contractName: "src/PumpFunFactory.sol:PumpFunFactory"}

		_, err := v.Verify(context.Background(), factoryRequest())
		require.NoError(t, err)
		forms := stub.submitted()
		require.Len(t, forms, 1)
		assert.Equal(t, "src/PumpFunFactory.sol:PumpFunFactory", forms[0].Get("contractname"))
	})

	t.Run("already verified is success", func(t *testing.T) {
		stub := &explorerStub{
			submits: []etherscanResponse{{Status: "0", Message: "NOTOK", Result: "Contract source code already verified"}},
		}
		v := newTestVerifier(t, stub, "key")

		receipt, err := v.Verify(context.Background(), factoryRequest())
		require.NoError(t, err)
		assert.True(t, receipt.AlreadyVerified)
		assert.Zero(t, stub.pollCount())
	})

	t.Run("already verified while polling is success", func(t *testing.T) {
		stub := &explorerStub{
			submits:  []etherscanResponse{{Status: "1", Result: "guid-2"}},
			statuses: []etherscanResponse{{Status: "0", Result: "Already Verified"}},
		}
		v := newTestVerifier(t, stub, "key")

		receipt, err := v.Verify(context.Background(), factoryRequest())
		require.NoError(t, err)
		assert.True(t, receipt.AlreadyVerified)
	})

	t.Run("retries until the explorer indexes the contract", func(t *testing.T) {
		stub := &explorerStub{
			submits: []etherscanResponse{
				{Status: "0", Message: "NOTOK", Result: "Unable to locate ContractCode at 0x000000000000000000000000000000000000000F"},
				{Status: "1", Message: "OK", Result: "guid-3"},
			},
			statuses: []etherscanResponse{{Status: "1", Result: "Pass - Verified"}},
		}
		v := newTestVerifier(t, stub, "key")

		receipt, err := v.Verify(context.Background(), factoryRequest())
		require.NoError(t, err)
		assert.Equal(t, "guid-3", receipt.GUID)
		assert.Len(t, stub.submitted(), 2)
	})

	t.Run("gives up when the contract is never indexed", func(t *testing.T) {
		stub := &explorerStub{
			submits: []etherscanResponse{{Status: "0", Result: "Unable to locate ContractCode at 0x0F"}},
		}
		v := newTestVerifier(t, stub, "key")
		v.maxElapsed = 100 * time.Millisecond

		_, err := v.Verify(context.Background(), factoryRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not yet indexed")
	})

	t.Run("compilation failure is reported", func(t *testing.T) {
		stub := &explorerStub{
			submits:  []etherscanResponse{{Status: "1", Result: "guid-4"}},
			statuses: []etherscanResponse{{Status: "0", Result: "Fail - Unable to verify"}},
		}
		v := newTestVerifier(t, stub, "key")

		_, err := v.Verify(context.Background(), factoryRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Fail - Unable to verify")
	})

	t.Run("rejected submission is not retried", func(t *testing.T) {
		stub := &explorerStub{
			submits: []etherscanResponse{{Status: "0", Result: "Invalid API Key"}},
		}
		v := newTestVerifier(t, stub, "key")

		_, err := v.Verify(context.Background(), factoryRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid API Key")
		assert.Len(t, stub.submitted(), 1)
	})

	t.Run("requires an API key", func(t *testing.T) {
		stub := &explorerStub{}
		v := newTestVerifier(t, stub, "")

		_, err := v.Verify(context.Background(), factoryRequest())
		assert.ErrorIs(t, err, domain.ErrVerificationNotConfigured)
		assert.Empty(t, stub.submitted())
	})
}
