package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// Default configuration values.
const (
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRetryInterval = 3 * time.Second
	DefaultPollInterval  = 5 * time.Second
)

// errNotIndexed means the explorer has not seen the contract creation yet
var errNotIndexed = errors.New("contract not yet indexed by explorer")

// errPending means the explorer accepted the submission but has not compiled it yet
var errPending = errors.New("verification pending")

// SourceProvider supplies compiler input and constructor encodings
type SourceProvider interface {
	SourceInput(id domain.ContractID) (*artifacts.SourceInput, error)
	EncodeConstructorArgs(id domain.ContractID, args ...any) (string, error)
}

// EtherscanVerifier verifies contracts with an Etherscan compatible API
type EtherscanVerifier struct {
	client        *http.Client
	sources       SourceProvider
	apiKey        string
	apiURL        string
	chainID       uint64
	explorerURL   string
	maxElapsed    time.Duration
	retryInterval time.Duration
	pollInterval  time.Duration
	log           *slog.Logger
}

// Option configures EtherscanVerifier.
type Option func(*EtherscanVerifier)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *EtherscanVerifier) {
		v.client = client
	}
}

// WithRetryInterval sets the initial delay between submissions.
func WithRetryInterval(d time.Duration) Option {
	return func(v *EtherscanVerifier) {
		v.retryInterval = d
	}
}

// WithPollInterval sets the initial delay between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(v *EtherscanVerifier) {
		v.pollInterval = d
	}
}

// NewEtherscanVerifier creates a verifier for the selected network
func NewEtherscanVerifier(cfg *config.RuntimeConfig, sources SourceProvider, log *slog.Logger, opts ...Option) *EtherscanVerifier {
	v := &EtherscanVerifier{
		client:        &http.Client{Timeout: DefaultHTTPTimeout},
		sources:       sources,
		apiKey:        cfg.Verification.APIKey,
		apiURL:        cfg.Verification.APIURL,
		maxElapsed:    cfg.Verification.MaxElapsed,
		retryInterval: DefaultRetryInterval,
		pollInterval:  DefaultPollInterval,
		log:           log,
	}
	if cfg.Network != nil {
		v.chainID = cfg.Network.ChainID
		v.explorerURL = cfg.Network.ExplorerURL
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify submits the standard-json-input for req and waits for the verdict
func (v *EtherscanVerifier) Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationReceipt, error) {
	if v.apiKey == "" {
		return nil, domain.ErrVerificationNotConfigured
	}

	input, err := v.sources.SourceInput(req.Contract)
	if err != nil {
		return nil, fmt.Errorf("failed to load compiler input: %w", err)
	}
	args, err := v.sources.EncodeConstructorArgs(req.Contract, req.ConstructorArguments...)
	if err != nil {
		return nil, err
	}

	data := url.Values{}
	data.Set("apikey", v.apiKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("chainid", strconv.FormatUint(v.chainID, 10))
	data.Set("contractaddress", req.Address.Hex())
	data.Set("sourceCode", string(input.StandardJSON))
	data.Set("codeformat", "solidity-standard-json-input")
	contractName := input.ContractName
	if contractName == "" {
		contractName = req.Contract.String()
	}
	data.Set("contractname", contractName)
	data.Set("compilerversion", input.CompilerVersion)
	if args != "" {
		data.Set("constructorArguements", args) // Note: Etherscan typo
	}

	receipt := &domain.VerificationReceipt{ExplorerURL: v.addressURL(req)}

	guid, err := v.submit(ctx, req, data)
	if errors.Is(err, errAlreadyVerified) {
		receipt.AlreadyVerified = true
		receipt.Message = "Already Verified"
		return receipt, nil
	}
	if err != nil {
		return nil, err
	}
	receipt.GUID = guid

	message, err := v.waitForStatus(ctx, req, guid)
	if errors.Is(err, errAlreadyVerified) {
		receipt.AlreadyVerified = true
		receipt.Message = "Already Verified"
		return receipt, nil
	}
	if err != nil {
		return nil, err
	}
	receipt.Message = message
	return receipt, nil
}

var errAlreadyVerified = errors.New("already verified")

func (v *EtherscanVerifier) newBackOff(ctx context.Context, initial time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	if v.maxElapsed > 0 {
		b.MaxElapsedTime = v.maxElapsed
	}
	return backoff.WithContext(b, ctx)
}

// submit posts the verification, retrying while the explorer has not indexed the contract
func (v *EtherscanVerifier) submit(ctx context.Context, req domain.VerificationRequest, data url.Values) (string, error) {
	operation := func() (string, error) {
		resp, err := v.call(ctx, http.MethodPost, data)
		if err != nil {
			return "", err
		}
		if resp.Status == "1" {
			return resp.Result, nil
		}

		switch {
		case isAlreadyVerified(resp.Result):
			return "", backoff.Permanent(errAlreadyVerified)
		case strings.Contains(resp.Result, "Unable to locate ContractCode"):
			return "", errNotIndexed
		default:
			return "", backoff.Permanent(fmt.Errorf("explorer rejected submission: %s", resp.Result))
		}
	}

	notify := func(err error, wait time.Duration) {
		v.log.Debug("retrying verification submission",
			slog.String("contract", req.Contract.Name),
			slog.Any("error", err),
			slog.Duration("wait", wait),
		)
	}

	return backoff.RetryNotifyWithData(operation, v.newBackOff(ctx, v.retryInterval), notify)
}

// waitForStatus polls checkverifystatus until the explorer reaches a verdict
func (v *EtherscanVerifier) waitForStatus(ctx context.Context, req domain.VerificationRequest, guid string) (string, error) {
	params := url.Values{}
	params.Set("apikey", v.apiKey)
	params.Set("module", "contract")
	params.Set("action", "checkverifystatus")
	params.Set("chainid", strconv.FormatUint(v.chainID, 10))
	params.Set("guid", guid)

	operation := func() (string, error) {
		resp, err := v.call(ctx, http.MethodGet, params)
		if err != nil {
			return "", err
		}

		switch {
		case strings.Contains(strings.ToLower(resp.Result), "pending"):
			return "", errPending
		case isAlreadyVerified(resp.Result):
			return "", backoff.Permanent(errAlreadyVerified)
		case resp.Status == "1":
			return resp.Result, nil
		default:
			return "", backoff.Permanent(fmt.Errorf("verification failed: %s", resp.Result))
		}
	}

	notify := func(err error, wait time.Duration) {
		v.log.Debug("verification status",
			slog.String("contract", req.Contract.Name),
			slog.String("guid", guid),
			slog.Any("status", err),
			slog.Duration("wait", wait),
		)
	}

	return backoff.RetryNotifyWithData(operation, v.newBackOff(ctx, v.pollInterval), notify)
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// call performs one API request. Transport failures are retryable; decoding failures are not.
func (v *EtherscanVerifier) call(ctx context.Context, method string, values url.Values) (*etherscanResponse, error) {
	var (
		httpReq *http.Request
		err     error
	)
	if method == http.MethodPost {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, v.apiURL, strings.NewReader(values.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, v.apiURL+"?"+values.Encode(), nil)
	}
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := v.client.Do(httpReq) //nolint:gosec // URL is the configured explorer endpoint
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("explorer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var result etherscanResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	return &result, nil
}

func (v *EtherscanVerifier) addressURL(req domain.VerificationRequest) string {
	if v.explorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimRight(v.explorerURL, "/"), req.Address.Hex())
}

func isAlreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}

var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
