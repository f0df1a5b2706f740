package ledger

import (
	"context"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/clinicbackend/internal/config"
	"github.com/clinicbackend/internal/models"
)

// WriteRequest carries one prescription entry to the ledger. It is built by
// the submission handler and consumed exactly once; EntryID is the
// idempotency token the history program uses to reject duplicates.
type WriteRequest struct {
	PatientID  string
	DoctorName string
	Disease    string
	Content    string
	EntryID    string
}

// Receipt identifies a committed ledger transaction.
type Receipt struct {
	TransactionID string `json:"transaction_id"`
	BlockNumber   uint64 `json:"block_number"`
}

// Client holds the single signing identity and gateway connection the
// process uses for its whole lifetime. The underlying gRPC connection is
// safe for concurrent in-flight calls, so unrelated reads never serialize
// against unrelated writes.
type Client struct {
	conn     *grpc.ClientConn
	gateway  *client.Gateway
	contract *client.Contract
}

// Connect dials the ledger node and binds the configured signing identity
// to the deployed history program.
func Connect(cfg config.LedgerConfig) (*Client, error) {
	transportCredentials, err := newTransportCredentials(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := grpc.Dial(cfg.Endpoint, grpc.WithTransportCredentials(transportCredentials))
	if err != nil {
		return nil, fmt.Errorf("dialing ledger node %s: %v", cfg.Endpoint, err)
	}

	id, sign, err := newSigningIdentity(cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	gw, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(5*time.Second),
		client.WithEndorseTimeout(15*time.Second),
		client.WithSubmitTimeout(5*time.Second),
		client.WithCommitStatusTimeout(cfg.CommitTimeout),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting gateway: %v", err)
	}

	contract := gw.GetNetwork(cfg.Channel).GetContract(cfg.Chaincode)

	return &Client{conn: conn, gateway: gw, contract: contract}, nil
}

func (c *Client) Close() error {
	c.gateway.Close()
	return c.conn.Close()
}

// RecordEntry submits one prescription entry and blocks until the ledger
// confirms inclusion or the bounded commit wait elapses. There is no retry:
// a failed write is reported as-is.
func (c *Client) RecordEntry(ctx context.Context, req WriteRequest) (Receipt, error) {
	proposal, err := c.contract.NewProposal(
		"recordEntry",
		client.WithArguments(req.PatientID, req.DoctorName, req.Disease, req.Content, req.EntryID),
	)
	if err != nil {
		return Receipt{}, &Error{Kind: KindRejected, Op: "recordEntry", Err: err}
	}

	// Endorsement simulates the call against current state and prices its
	// execution before anything is signed into the ledger.
	transaction, err := proposal.EndorseWithContext(ctx)
	if err != nil {
		return Receipt{}, classify("recordEntry/endorse", err)
	}

	commit, err := transaction.SubmitWithContext(ctx)
	if err != nil {
		return Receipt{}, classify("recordEntry/submit", err)
	}

	commitStatus, err := commit.StatusWithContext(ctx)
	if err != nil {
		return Receipt{}, classify("recordEntry/commit", err)
	}
	if !commitStatus.Successful {
		return Receipt{}, &Error{
			Kind: KindRejected,
			Op:   "recordEntry",
			Err:  fmt.Errorf("transaction %s invalidated with code %d", commitStatus.TransactionID, int32(commitStatus.Code)),
		}
	}

	return Receipt{
		TransactionID: commitStatus.TransactionID,
		BlockNumber:   commitStatus.BlockNumber,
	}, nil
}

// QueryHistory evaluates a read-only call and returns the assembled history
// for the patient, newest entry first. A patient with no entries yields an
// empty history, never an error.
func (c *Client) QueryHistory(ctx context.Context, patientID string) ([]models.HistoryEntry, error) {
	proposal, err := c.contract.NewProposal("queryHistory", client.WithArguments(patientID))
	if err != nil {
		return nil, &Error{Kind: KindRejected, Op: "queryHistory", Err: err}
	}

	result, err := proposal.EvaluateWithContext(ctx)
	if err != nil {
		return nil, classify("queryHistory", err)
	}

	raw, err := decodeRecords(result)
	if err != nil {
		return nil, &Error{Kind: KindRejected, Op: "queryHistory", Err: err}
	}
	return AssembleHistory(patientID, raw), nil
}

// Ping verifies connectivity to the ledger node with a read-only call.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.QueryHistory(ctx, "connectivity-probe")
	return err
}

func newTransportCredentials(cfg config.LedgerConfig) (credentials.TransportCredentials, error) {
	if cfg.TLSCertPath == "" {
		return insecure.NewCredentials(), nil
	}
	pem, err := os.ReadFile(cfg.TLSCertPath)
	if err != nil {
		return nil, fmt.Errorf("reading ledger TLS certificate: %v", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("ledger TLS certificate %s is not valid PEM", cfg.TLSCertPath)
	}
	return credentials.NewClientTLSFromCert(pool, cfg.GatewayPeer), nil
}

func newSigningIdentity(cfg config.LedgerConfig) (identity.Identity, identity.Sign, error) {
	certPEM, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading signing certificate: %v", err)
	}
	cert, err := identity.CertificateFromPEM(certPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing signing certificate: %v", err)
	}
	id, err := identity.NewX509Identity(cfg.MSPID, cert)
	if err != nil {
		return nil, nil, fmt.Errorf("building signing identity: %v", err)
	}

	keyPEM, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading signing key: %v", err)
	}
	key, err := identity.PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing signing key: %v", err)
	}
	sign, err := identity.NewPrivateKeySign(key)
	if err != nil {
		return nil, nil, fmt.Errorf("building sign function: %v", err)
	}

	return id, sign, nil
}
