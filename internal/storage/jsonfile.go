// Package storage implements the persistence gateways: durable snapshot
// save/load behind a common contract, isolating the rest of the system from
// the on-disk representation.
//
// The primary gateway is a flat JSON file in one of two layouts, matching
// the files the desktop tools have always written: the ledger variant is an
// object with balance/budget/transactions, the task variant a bare array of
// task objects. Saves go through a temp file and an atomic rename so a
// crash mid-write can never leave a truncated or mixed file behind.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"wallet/internal/core"
)

// Variant selects which on-disk layout a JSON gateway reads and writes.
type Variant string

const (
	VariantLedger Variant = "ledger"
	VariantTasks  Variant = "tasks"
)

// IsValid returns true for a known variant.
func (v Variant) IsValid() bool {
	return v == VariantLedger || v == VariantTasks
}

// JSONFile persists snapshots to a single JSON file.
type JSONFile struct {
	path    string
	variant Variant
}

// NewJSONFile returns a gateway for the given path and layout variant.
func NewJSONFile(path string, variant Variant) *JSONFile {
	return &JSONFile{path: path, variant: variant}
}

// Path returns the target file path.
func (g *JSONFile) Path() string {
	return g.path
}

// ledgerFile is the wallet file layout. Balance and budget are plain
// two-decimal strings; amount is the signed display form kept for
// compatibility and raw_amount the canonical numeric value.
type ledgerFile struct {
	Balance      string         `json:"balance"`
	Budget       string         `json:"budget"`
	LastUpdated  string         `json:"last_updated"`
	Transactions []ledgerRecord `json:"transactions"`
}

type ledgerRecord struct {
	ID          int64   `json:"id"`
	Amount      string  `json:"amount"`
	RawAmount   float64 `json:"raw_amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// taskRecord is one element of the task file's top-level array.
type taskRecord struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Text     string `json:"text"`
	Created  string `json:"created"`
	Done     bool   `json:"done"`
}

// Save writes a complete replacement of the file content. On failure the
// target file is left as it was and the error matches core.ErrPersistence.
func (g *JSONFile) Save(_ context.Context, snap core.Snapshot) error {
	var payload any
	switch g.variant {
	case VariantTasks:
		payload = encodeTasks(snap)
	default:
		payload = encodeLedger(snap)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", core.ErrPersistence, err)
	}

	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data directory: %v", core.ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(g.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", core.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", core.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", core.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, g.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", core.ErrPersistence, g.path, err)
	}
	return nil
}

// Load restores a snapshot from the file. A missing file yields an empty
// snapshot; an unreadable or malformed one fails with core.ErrCorruptData
// and the file is left byte-for-byte as found.
func (g *JSONFile) Load(_ context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Snapshot{}, nil
		}
		return core.Snapshot{}, fmt.Errorf("%w: read %s: %v", core.ErrCorruptData, g.path, err)
	}
	if g.variant == VariantTasks {
		return decodeTasks(data)
	}
	return decodeLedger(data)
}

func encodeLedger(snap core.Snapshot) ledgerFile {
	file := ledgerFile{
		Balance:      snap.Balance.Decimal(),
		Budget:       snap.Budget.Decimal(),
		LastUpdated:  snap.LastUpdated.Format(time.RFC3339),
		Transactions: make([]ledgerRecord, 0, len(snap.Records)),
	}
	for _, r := range snap.Records {
		if !r.Kind.IsLedger() {
			continue
		}
		file.Transactions = append(file.Transactions, ledgerRecord{
			ID:          r.ID,
			Amount:      r.Amount.SignedDisplay(r.Kind),
			RawAmount:   r.Amount.Float(),
			Type:        string(r.Kind),
			Category:    r.Category,
			Description: r.Description,
			Date:        r.CreatedAt.Format(core.LedgerTimeLayout),
		})
	}
	return file
}

func decodeLedger(data []byte) (core.Snapshot, error) {
	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: parse ledger file: %v", core.ErrCorruptData, err)
	}
	snap := core.Snapshot{}
	var err error
	if snap.Balance, err = parseFileAmount(file.Balance); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: balance %q", core.ErrCorruptData, file.Balance)
	}
	if snap.Budget, err = parseFileAmount(file.Budget); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: budget %q", core.ErrCorruptData, file.Budget)
	}
	if file.LastUpdated != "" {
		// Best effort: an unknown timestamp format is not worth refusing the file.
		if ts, err := time.Parse(time.RFC3339, file.LastUpdated); err == nil {
			snap.LastUpdated = ts
		}
	}
	snap.Records = make([]core.Record, 0, len(file.Transactions))
	for _, tx := range file.Transactions {
		kind := core.Kind(tx.Type)
		if tx.ID <= 0 || !kind.IsLedger() {
			return core.Snapshot{}, fmt.Errorf("%w: transaction %d has type %q", core.ErrCorruptData, tx.ID, tx.Type)
		}
		if tx.RawAmount <= 0 {
			return core.Snapshot{}, fmt.Errorf("%w: transaction %d amount %v", core.ErrCorruptData, tx.ID, tx.RawAmount)
		}
		created, err := time.Parse(core.LedgerTimeLayout, tx.Date)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: transaction %d date %q", core.ErrCorruptData, tx.ID, tx.Date)
		}
		desc := tx.Description
		if desc == "" {
			desc = core.DefaultDescription
		}
		snap.Records = append(snap.Records, core.Record{
			ID:          tx.ID,
			Kind:        kind,
			Category:    tx.Category,
			Amount:      core.FromFloat(tx.RawAmount),
			Description: desc,
			CreatedAt:   created,
		})
	}
	var sum int64
	for _, r := range snap.Records {
		sum += r.Signed().Cents
	}
	if sum != snap.Balance.Cents {
		return core.Snapshot{}, fmt.Errorf("%w: balance %s does not match transaction sum %s",
			core.ErrCorruptData, snap.Balance.Decimal(), core.Money{Cents: sum}.Decimal())
	}
	return snap, nil
}

// parseFileAmount reads a stored two-decimal string, treating absence as zero.
func parseFileAmount(s string) (core.Money, error) {
	if s == "" {
		return core.Money{}, nil
	}
	return core.ParseNonNegativeAmount(s)
}

func encodeTasks(snap core.Snapshot) []taskRecord {
	out := make([]taskRecord, 0, len(snap.Records))
	for _, r := range snap.Records {
		if !r.IsTask() {
			continue
		}
		out = append(out, taskRecord{
			ID:       r.ID,
			Category: r.Category,
			Priority: string(r.Priority),
			Text:     r.Description,
			Created:  r.CreatedAt.Format(core.TaskTimeLayout),
			Done:     r.Done,
		})
	}
	return out
}

func decodeTasks(data []byte) (core.Snapshot, error) {
	var file []taskRecord
	if err := json.Unmarshal(data, &file); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: parse task file: %v", core.ErrCorruptData, err)
	}
	snap := core.Snapshot{Records: make([]core.Record, 0, len(file))}
	nextID := int64(1)
	for _, tr := range file {
		id := tr.ID
		if id <= 0 {
			// Older files carry no usable IDs; assign sequentially like the
			// original panel did on every load.
			id = nextID
		}
		if id >= nextID {
			nextID = id + 1
		}
		created := time.Now()
		if tr.Created != "" {
			ts, err := time.Parse(core.TaskTimeLayout, tr.Created)
			if err != nil {
				return core.Snapshot{}, fmt.Errorf("%w: task %d created %q", core.ErrCorruptData, id, tr.Created)
			}
			created = ts
		}
		category := tr.Category
		if category == "" {
			category = core.DefaultTaskCategory
		}
		snap.Records = append(snap.Records, core.Record{
			ID:          id,
			Kind:        core.KindTask,
			Category:    category,
			Priority:    core.ParsePriority(tr.Priority),
			Description: tr.Text,
			Done:        tr.Done,
			CreatedAt:   created,
		})
	}
	return snap, nil
}
