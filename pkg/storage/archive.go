package storage

import (
	"fmt"
	"io"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

var exportsBucket = []byte("exports")

const gamesBucketPrefix = "games/"

// RunInfo describes one archived fixture run.
type RunInfo struct {
	RunID      string       `json:"runId"`
	ExportedAt fixture.Date `json:"exportedAt"`
	Count      int          `json:"count"`
	GameIDs    []string     `json:"gameIds"` // generation order
}

// Archive keeps generated envelopes in a Backend so runs can be reloaded and compared.
// Each run's games live in their own bucket keyed by UUID; the run index keeps their order.
type Archive struct {
	backend Backend
}

// NewArchive wraps backend and makes sure the run index exists.
func NewArchive(backend Backend) (*Archive, error) {
	if err := backend.CreateBucket(exportsBucket); err != nil {
		return nil, fmt.Errorf("failed to create exports bucket: %w", err)
	}
	return &Archive{backend: backend}, nil
}

// Backend returns the underlying backend
func (a *Archive) Backend() Backend {
	return a.backend
}

// Close closes the underlying backend
func (a *Archive) Close() error {
	return a.backend.Close()
}

func gamesBucket(runID string) []byte {
	return []byte(gamesBucketPrefix + runID)
}

func checkRunID(runID string) error {
	if strings.TrimSpace(runID) == "" || strings.ContainsAny(runID, "/\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

// Save stores env under runID, minting one game key per record from ids.
// The whole run is written in one transaction, so a failed Save leaves
// nothing behind. Saving an existing runID fails.
func (a *Archive) Save(runID string, env fixture.ExportEnvelope, ids io.Reader) (RunInfo, error) {
	if err := checkRunID(runID); err != nil {
		return RunInfo{}, err
	}

	info := RunInfo{
		RunID:      runID,
		ExportedAt: env.ExportedAt,
		Count:      len(env.Games),
		GameIDs:    make([]string, 0, len(env.Games)),
	}

	err := a.backend.Update(func(tx Transaction) error {
		index := tx.Bucket(exportsBucket)
		if index == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, exportsBucket)
		}
		if index.Get([]byte(runID)) != nil {
			return fmt.Errorf("%w: %s", ErrRunExists, runID)
		}

		if err := tx.CreateBucket(gamesBucket(runID)); err != nil {
			return err
		}
		games := tx.Bucket(gamesBucket(runID))

		for i, g := range env.Games {
			id, err := uuid.NewRandomFromReader(ids)
			if err != nil {
				return fmt.Errorf("failed to mint id for game %d: %w", i, err)
			}
			data, err := json.Marshal(g)
			if err != nil {
				return fmt.Errorf("failed to encode game %d: %w", i, err)
			}
			if err := games.Put([]byte(id.String()), data); err != nil {
				return err
			}
			info.GameIDs = append(info.GameIDs, id.String())
		}

		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to encode run info: %w", err)
		}
		return index.Put([]byte(runID), data)
	})
	if err != nil {
		return RunInfo{}, err
	}

	return info, nil
}

// Info returns the index entry for runID.
func (a *Archive) Info(runID string) (RunInfo, error) {
	data, err := a.backend.Get(exportsBucket, []byte(runID))
	if err != nil {
		return RunInfo{}, err
	}
	if data == nil {
		return RunInfo{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	var info RunInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return RunInfo{}, fmt.Errorf("failed to decode run info: %w", err)
	}
	return info, nil
}

// Load reassembles the envelope saved under runID, games in generation order.
func (a *Archive) Load(runID string) (fixture.ExportEnvelope, error) {
	info, err := a.Info(runID)
	if err != nil {
		return fixture.ExportEnvelope{}, err
	}

	env := fixture.ExportEnvelope{
		ExportedAt: info.ExportedAt,
		Games:      make([]fixture.MatchRecord, 0, len(info.GameIDs)),
	}

	err = a.backend.View(func(tx Transaction) error {
		games := tx.Bucket(gamesBucket(runID))
		if games == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, gamesBucket(runID))
		}
		for _, id := range info.GameIDs {
			data := games.Get([]byte(id))
			if data == nil {
				return fmt.Errorf("%w: game %s of run %s", ErrRunNotFound, id, runID)
			}
			var g fixture.MatchRecord
			if err := json.Unmarshal(data, &g); err != nil {
				return fmt.Errorf("failed to decode game %s: %w", id, err)
			}
			env.Games = append(env.Games, g)
		}
		return nil
	})
	if err != nil {
		return fixture.ExportEnvelope{}, err
	}

	return env, nil
}

// Runs lists archived run IDs in ascending order.
func (a *Archive) Runs() ([]string, error) {
	var runs []string
	err := a.backend.ForEach(exportsBucket, func(k, _ []byte) error {
		runs = append(runs, string(k))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(runs)
	return runs, nil
}
