// Package resolver fills in the on-chain half of a creation event. The
// log payload carries name/symbol/uri only; the mint and the creating
// wallet live in the transaction itself, so the resolver fetches the
// confirmed transaction by signature and reads them out of the create
// instruction's account list.
package resolver

import (
	"bytes"
	"context"
	"fmt"

	"pumpfun-alert-bot/internal/parser"
	"pumpfun-alert-bot/internal/utils"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// Pump.Fun instruction discriminators (first 8 bytes of instruction data)
var (
	CreateDiscriminator = []byte{0xea, 0xeb, 0xda, 0x01, 0x12, 0x3d, 0x06, 0x66} // create instruction
	BuyDiscriminator    = []byte{0xe0, 0xeb, 0xda, 0x01, 0x12, 0x3d, 0x06, 0x66} // buy instruction
	SellDiscriminator   = []byte{0x25, 0xb3, 0xf9, 0x49, 0x5e, 0xf1, 0xcd, 0x51} // sell instruction
)

// TransactionFetcher is the slice of the RPC client the resolver needs.
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, signature solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

// Resolver looks up creation transactions and extracts mint and dev.
type Resolver struct {
	client         TransactionFetcher
	pumpFunProgram solana.PublicKey
}

func New(client TransactionFetcher, pumpFunProgram solana.PublicKey) *Resolver {
	return &Resolver{
		client:         client,
		pumpFunProgram: pumpFunProgram,
	}
}

// Resolve fetches the confirmed transaction for the event and sets
// Mint and Dev. An error means the event should be dropped; the stream
// itself is unaffected.
func (r *Resolver) Resolve(ctx context.Context, event *parser.CreationEvent) error {
	sig, err := solana.SignatureFromBase58(event.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature %q: %w", event.Signature, err)
	}

	version := uint64(0)
	tx, err := r.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		MaxSupportedTransactionVersion: &version,
		Commitment:                     rpc.CommitmentConfirmed,
		Encoding:                       solana.EncodingBase64,
	})
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil || tx.Transaction == nil {
		return fmt.Errorf("transaction not found")
	}

	txBinary := tx.Transaction.GetBinary()
	if txBinary == nil {
		return fmt.Errorf("failed to get transaction binary data")
	}

	decodedTx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBinary))
	if err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}

	mint, dev, err := r.extractCreation(decodedTx)
	if err != nil {
		return err
	}

	event.Mint = mint
	event.Dev = dev

	logrus.WithFields(logrus.Fields{
		"signature": event.Signature[:8] + "...",
		"mint":      utils.SanitizeWalletAddress(mint.String()),
		"dev":       utils.SanitizeWalletAddress(dev.String()),
	}).Debug("🔎 Creation resolved")

	return nil
}

// extractCreation locates the pump.fun create instruction and reads the
// mint and dev from it.
//
// Account layout for the create instruction:
//
//	0: mint
//	1: mint authority
//	2: bonding curve
//	3: associated bonding curve
//	4: global
//	5: mpl token metadata
//	6: metadata
//	7: user
//
// The dev is the fee payer: the first account key, which is always the
// first signer of the transaction.
func (r *Resolver) extractCreation(decodedTx *solana.Transaction) (mint, dev solana.PublicKey, err error) {
	accountKeys := decodedTx.Message.AccountKeys
	if len(accountKeys) == 0 {
		return mint, dev, fmt.Errorf("transaction has no account keys")
	}
	dev = accountKeys[0]

	for _, instr := range decodedTx.Message.Instructions {
		if int(instr.ProgramIDIndex) >= len(accountKeys) {
			continue
		}
		if !accountKeys[instr.ProgramIDIndex].Equals(r.pumpFunProgram) {
			continue
		}
		if len(instr.Data) < 8 || !bytes.Equal(instr.Data[:8], CreateDiscriminator) {
			continue
		}
		if len(instr.Accounts) < 8 {
			return mint, dev, fmt.Errorf("insufficient accounts for create instruction: have %d, need 8", len(instr.Accounts))
		}
		mintIdx := instr.Accounts[0]
		if int(mintIdx) >= len(accountKeys) {
			return mint, dev, fmt.Errorf("mint account index %d out of range", mintIdx)
		}
		return accountKeys[mintIdx], dev, nil
	}

	return mint, dev, fmt.Errorf("no create instruction found in transaction")
}
