package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/soaringjerry/QuickScan/internal/api"
	"github.com/soaringjerry/QuickScan/internal/services"
)

// legacyScan is one submission from the previous system's JSON export.
// Field names vary between exports, so both spellings are accepted.
type legacyScan struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Company         string         `json:"company"`
	SendCopyToAdmin bool           `json:"sendCopyToAdmin"`
	Answers         []legacyAnswer `json:"answers"`
	CreatedAt       time.Time      `json:"createdAt"`
	CreatedAtSnake  time.Time      `json:"created_at"`
}

type legacyAnswer struct {
	QuestionID      int `json:"questionId"`
	QuestionIDSnake int `json:"question_id"`
	Value           any `json:"value"`
}

// ImportLegacySnapshot loads scans from path into an empty store, re-scoring
// each with the current catalog. It is a no-op when path is empty, the file is
// missing, or the store already has scans.
func ImportLegacySnapshot(path string, store api.Store, scans *services.ScanService) (int, error) {
	if path == "" {
		return 0, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read legacy snapshot: %w", err)
	}
	if store.CountScans() > 0 {
		log.Printf("legacy snapshot %s skipped: store already has scans", path)
		return 0, nil
	}
	var legacy []legacyScan
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return 0, fmt.Errorf("decode legacy snapshot: %w", err)
	}

	log.Printf("First run detected, importing %d scans from legacy snapshot %s...", len(legacy), path)
	imported := 0
	for i, l := range legacy {
		sc := services.StoredScan{
			ID:              l.ID,
			Name:            l.Name,
			Email:           l.Email,
			Company:         l.Company,
			SendCopyToAdmin: l.SendCopyToAdmin,
			CreatedAt:       l.CreatedAt,
		}
		if sc.CreatedAt.IsZero() {
			sc.CreatedAt = l.CreatedAtSnake
		}
		for _, a := range l.Answers {
			id := a.QuestionID
			if id == 0 {
				id = a.QuestionIDSnake
			}
			sc.Result.Answers = append(sc.Result.Answers, services.ScoredAnswer{QuestionID: id, Value: a.Value})
		}
		if _, err := scans.Import(sc); err != nil {
			log.Printf("legacy scan #%d (%s) skipped: %v", i, l.Email, err)
			continue
		}
		imported++
	}
	log.Printf("Legacy import completed: %d of %d scans.", imported, len(legacy))
	return imported, nil
}
