package memory

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

// Token account amount offset, after the mint and owner.
const tokenAmountOffset = 64

// Processor decides the outcome of a submitted transaction. A non-nil
// landed error lands the transaction with a failed status. A non-nil
// preflight error rejects the transaction before it lands.
type Processor func(txn solana.Transaction) (landed *solana.TransactionError, preflight error)

// Client is an in memory solana.Client for tests. Submitted transactions are
// recorded and finalized immediately; they do not modify account state.
type Client struct {
	sync.Mutex

	accounts  map[string]solana.AccountInfo
	statuses  map[solana.Signature]*solana.SignatureStatus
	logs      map[solana.Signature]*solana.TransactionLogs
	submitted []solana.Transaction
	blockhash solana.Blockhash
	slot      uint64
	processor Processor
}

var _ solana.Client = (*Client)(nil)

// NewClient returns an empty in memory client.
func NewClient() *Client {
	c := &Client{
		accounts: make(map[string]solana.AccountInfo),
		statuses: make(map[solana.Signature]*solana.SignatureStatus),
		logs:     make(map[solana.Signature]*solana.TransactionLogs),
	}
	c.blockhash = sha256.Sum256([]byte("genesis"))
	return c
}

// SetAccount stores an account, replacing any existing one.
func (c *Client) SetAccount(address ed25519.PublicKey, info solana.AccountInfo) {
	c.Lock()
	defer c.Unlock()

	c.accounts[string(address)] = info
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(address ed25519.PublicKey) {
	c.Lock()
	defer c.Unlock()

	delete(c.accounts, string(address))
}

// SetProcessor installs the function deciding submission outcomes.
func (c *Client) SetProcessor(p Processor) {
	c.Lock()
	defer c.Unlock()

	c.processor = p
}

// SetLogs sets the logs returned for a transaction.
func (c *Client) SetLogs(sig solana.Signature, logs []string) {
	c.Lock()
	defer c.Unlock()

	entry, ok := c.logs[sig]
	if !ok {
		entry = &solana.TransactionLogs{Slot: c.slot}
		c.logs[sig] = entry
	}
	entry.Logs = logs
}

// Submitted returns the transactions accepted so far.
func (c *Client) Submitted() []solana.Transaction {
	c.Lock()
	defer c.Unlock()

	return append([]solana.Transaction(nil), c.submitted...)
}

func (c *Client) GetAccountInfo(_ context.Context, account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.Lock()
	defer c.Unlock()

	info, ok := c.accounts[string(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return cloneAccount(info), nil
}

func (c *Client) GetProgramAccounts(_ context.Context, program ed25519.PublicKey, _ solana.Commitment, filters ...solana.AccountFilter) ([]solana.KeyedAccount, error) {
	type memcmp struct {
		offset uint64
		value  []byte
	}

	var dataSize uint64
	var comparisons []memcmp
	for _, f := range filters {
		if f.DataSize > 0 {
			dataSize = f.DataSize
		}
		if f.Memcmp != nil {
			value, err := base58.Decode(f.Memcmp.Bytes)
			if err != nil {
				return nil, errors.Wrap(err, "invalid memcmp bytes")
			}
			comparisons = append(comparisons, memcmp{offset: f.Memcmp.Offset, value: value})
		}
	}

	c.Lock()
	defer c.Unlock()

	var result []solana.KeyedAccount
	for key, info := range c.accounts {
		if !bytes.Equal(info.Owner, program) {
			continue
		}
		if dataSize > 0 && uint64(len(info.Data)) != dataSize {
			continue
		}

		matches := true
		for _, cmp := range comparisons {
			end := cmp.offset + uint64(len(cmp.value))
			if end > uint64(len(info.Data)) || !bytes.Equal(info.Data[cmp.offset:end], cmp.value) {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}

		result = append(result, solana.KeyedAccount{
			PublicKey: ed25519.PublicKey(key),
			Account:   cloneAccount(info),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].PublicKey, result[j].PublicKey) < 0
	})
	return result, nil
}

func (c *Client) GetBalance(_ context.Context, account ed25519.PublicKey) (uint64, error) {
	c.Lock()
	defer c.Unlock()

	return c.accounts[string(account)].Lamports, nil
}

func (c *Client) GetTokenAccountBalance(_ context.Context, account ed25519.PublicKey) (uint64, error) {
	c.Lock()
	defer c.Unlock()

	info, ok := c.accounts[string(account)]
	if !ok || len(info.Data) < tokenAmountOffset+8 {
		return 0, solana.ErrNoBalance
	}
	return binary.LittleEndian.Uint64(info.Data[tokenAmountOffset:]), nil
}

func (c *Client) GetLatestBlockhash(_ context.Context) (solana.Blockhash, error) {
	c.Lock()
	defer c.Unlock()

	return c.blockhash, nil
}

// GetMinimumBalanceForRentExemption uses the default rent parameters.
func (c *Client) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	const (
		accountStorageOverhead = 128
		lamportsPerByteYear    = 3480
		exemptionYears         = 2
	)
	return (accountStorageOverhead + size) * lamportsPerByteYear * exemptionYears, nil
}

func (c *Client) GetSignatureStatus(ctx context.Context, sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	statuses, err := c.GetSignatureStatuses(ctx, []solana.Signature{sig})
	if err != nil {
		return nil, err
	}
	if statuses[0] == nil {
		return nil, solana.ErrSignatureNotFound
	}
	return statuses[0], nil
}

func (c *Client) GetSignatureStatuses(_ context.Context, sigs []solana.Signature) ([]*solana.SignatureStatus, error) {
	c.Lock()
	defer c.Unlock()

	statuses := make([]*solana.SignatureStatus, len(sigs))
	for i, sig := range sigs {
		if s, ok := c.statuses[sig]; ok {
			cloned := *s
			statuses[i] = &cloned
		}
	}
	return statuses, nil
}

func (c *Client) GetTransactionLogs(_ context.Context, sig solana.Signature, _ solana.Commitment) (*solana.TransactionLogs, error) {
	c.Lock()
	defer c.Unlock()

	logs, ok := c.logs[sig]
	if !ok {
		return nil, solana.ErrSignatureNotFound
	}

	cloned := *logs
	cloned.Logs = append([]string(nil), logs.Logs...)
	return &cloned, nil
}

func (c *Client) SimulateTransaction(_ context.Context, txn solana.Transaction, _ solana.Commitment) (*solana.SimulationResult, error) {
	c.Lock()
	processor := c.processor
	c.Unlock()

	result := &solana.SimulationResult{}
	if processor == nil {
		return result, nil
	}

	landed, preflight := processor(txn)
	if txErr, ok := preflight.(*solana.TransactionError); ok {
		result.Err = txErr
	} else if preflight != nil {
		return nil, preflight
	} else {
		result.Err = landed
	}
	return result, nil
}

func (c *Client) SubmitTransaction(_ context.Context, txn solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	sig := txn.Signature()
	if !txn.IsSigned() {
		return sig, errors.New("transaction is not signed")
	}
	if len(txn.Marshal()) > solana.MaxTransactionSize {
		return sig, solana.ErrTransactionTooLarge
	}

	c.Lock()
	processor := c.processor
	c.Unlock()

	var landed *solana.TransactionError
	if processor != nil {
		var preflight error
		landed, preflight = processor(txn)
		if preflight != nil {
			return sig, preflight
		}
	}

	c.Lock()
	defer c.Unlock()

	c.slot++
	c.submitted = append(c.submitted, txn)
	c.statuses[sig] = &solana.SignatureStatus{
		Slot:               c.slot,
		ErrorResult:        landed,
		ConfirmationStatus: "finalized",
	}
	if _, ok := c.logs[sig]; !ok {
		c.logs[sig] = &solana.TransactionLogs{Slot: c.slot}
	}
	c.logs[sig].Err = landed

	return sig, nil
}

func cloneAccount(info solana.AccountInfo) solana.AccountInfo {
	info.Data = append([]byte(nil), info.Data...)
	info.Owner = append(ed25519.PublicKey(nil), info.Owner...)
	return info
}
