package arena

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/x1-mining-arena/arena-go/pkg/metrics"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

// RemoteRejection is returned when the network rejects a transaction, either
// during preflight simulation or after it lands. The transaction error is
// passed through as reported.
type RemoteRejection struct {
	Signature solana.Signature
	Err       *solana.TransactionError
	Logs      []string
}

func (r *RemoteRejection) Error() string {
	msg := fmt.Sprintf("transaction %s rejected: %s", r.Signature, r.Err.Error())
	if code, ok := r.ProgramError(); ok {
		msg = fmt.Sprintf("%s (%s)", msg, code.Error())
	}
	return msg
}

func (r *RemoteRejection) Unwrap() error {
	return r.Err
}

// ProgramError returns the arena error the program failed with, if any.
func (r *RemoteRejection) ProgramError() (mining_arena.ProgramError, bool) {
	code, ok := r.Err.CustomErrorCode()
	if !ok {
		return 0, false
	}
	return mining_arena.LookupProgramError(code)
}

func newRemoteRejection(sig solana.Signature, txErr *solana.TransactionError, logs []string) *RemoteRejection {
	if len(logs) == 0 {
		logs = txErr.Logs()
	}
	return &RemoteRejection{
		Signature: sig,
		Err:       txErr,
		Logs:      logs,
	}
}

// Submit signs the instructions into a transaction paid for by the first
// signer, submits it, and waits for the configured commitment.
func (c *Client) Submit(ctx context.Context, signers []ed25519.PrivateKey, instructions ...solana.Instruction) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Submit")
	defer tracer.End()

	sig, err := c.submit(ctx, signers, instructions)
	tracer.OnError(err)
	return sig, err
}

func (c *Client) submit(ctx context.Context, signers []ed25519.PrivateKey, instructions []solana.Instruction) (solana.Signature, error) {
	txn, err := c.newTransaction(ctx, signers, instructions)
	if err != nil {
		return solana.Signature{}, err
	}
	sig := txn.Signature()

	log := c.log.WithFields(logrus.Fields{
		"method":    "Submit",
		"signature": sig.String(),
	})
	for i, ixn := range instructions {
		if name, ok := mining_arena.ParseInstructionName(ixn.Data); ok {
			log = log.WithField(fmt.Sprintf("instruction_%d", i), name)
		}
	}

	commitment := c.commitment(ctx)

	start := time.Now()
	_, err = c.sc.SubmitTransaction(ctx, txn, commitment)
	var txErr *solana.TransactionError
	if errors.As(err, &txErr) {
		log.WithError(txErr).Info("transaction rejected in preflight")
		return sig, recordRejection(ctx, newRemoteRejection(sig, txErr, nil))
	} else if err != nil {
		log.WithError(err).Warn("failure submitting transaction")
		return sig, errors.Wrap(err, "failed to submit transaction")
	}

	confirmCtx, cancel := context.WithTimeout(ctx, c.conf.confirmationTimeout.Get(ctx))
	defer cancel()

	status, err := c.sc.GetSignatureStatus(confirmCtx, sig, commitment)
	if err != nil {
		log.WithError(err).Warn("failure confirming transaction")
		return sig, errors.Wrap(err, "failed to confirm transaction")
	}

	if status.ErrorResult != nil {
		var logs []string
		if txLogs, err := c.sc.GetTransactionLogs(ctx, sig, commitment); err == nil {
			logs = txLogs.Logs
		}
		log.WithError(status.ErrorResult).Info("transaction failed")
		return sig, recordRejection(ctx, newRemoteRejection(sig, status.ErrorResult, logs))
	}

	metrics.RecordDuration(ctx, confirmationTimeMetricName, time.Since(start))
	log.Debug("transaction confirmed")
	return sig, nil
}

func recordRejection(ctx context.Context, rejection *RemoteRejection) *RemoteRejection {
	kvPairs := map[string]interface{}{
		"signature": rejection.Signature.String(),
		"error":     rejection.Err.Error(),
	}
	if programErr, ok := rejection.ProgramError(); ok {
		kvPairs["program_error"] = programErr.Error()
	}
	metrics.RecordEvent(ctx, rejectionEventName, kvPairs)
	return rejection
}

// Simulate signs the instructions and simulates the transaction without
// submitting it.
func (c *Client) Simulate(ctx context.Context, signers []ed25519.PrivateKey, instructions ...solana.Instruction) (*solana.SimulationResult, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Simulate")
	defer tracer.End()

	txn, err := c.newTransaction(ctx, signers, instructions)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	result, err := c.sc.SimulateTransaction(ctx, txn, c.commitment(ctx))
	tracer.OnError(err)
	return result, err
}

func (c *Client) newTransaction(ctx context.Context, signers []ed25519.PrivateKey, instructions []solana.Instruction) (solana.Transaction, error) {
	if len(signers) == 0 {
		return solana.Transaction{}, errors.New("at least one signer is required")
	}
	if len(instructions) == 0 {
		return solana.Transaction{}, errors.New("at least one instruction is required")
	}

	blockhash, err := c.sc.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Transaction{}, errors.Wrap(err, "failed to get latest blockhash")
	}

	payer := signers[0].Public().(ed25519.PublicKey)
	txn := solana.NewTransaction(payer, instructions...)
	txn.SetBlockhash(blockhash)
	if err := txn.Sign(signers...); err != nil {
		return solana.Transaction{}, errors.Wrap(err, "failed to sign transaction")
	}
	if !txn.IsSigned() {
		return solana.Transaction{}, errors.New("transaction is missing required signatures")
	}
	return txn, nil
}

// Events returns the arena events emitted by a landed transaction.
func (c *Client) Events(ctx context.Context, sig solana.Signature) ([]mining_arena.Event, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Events")
	defer tracer.End()

	logs, err := c.sc.GetTransactionLogs(ctx, sig, c.commitment(ctx))
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "failed to get transaction logs")
	}

	events, err := mining_arena.ParseEventLogs(logs.Logs)
	tracer.OnError(err)
	return events, err
}
