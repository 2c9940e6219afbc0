// Package sync implements asynchronous background synchronization and offline queuing for per-user account writes.
package sync

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/auth"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/where"
)

// SyncMutation encapsulates a single account write for deferred synchronization.
type SyncMutation struct {
	Timestamp int64  `json:"timestamp"`
	UID       string `json:"uid"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Payload   string `json:"payload"`
}

func syncFile() string {
	return filepath.Join(where.Config(), "failed_syncs.json")
}

// QueueFailure persists a failed account write to a local JSON-log for deferred reconciliation.
// Method and path must match the write the document store rejected.
func QueueFailure(uid, method, path, payload string) error {
	f, err := filesystem.API().OpenFile(syncFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	mutation := SyncMutation{
		Timestamp: time.Now().Unix(),
		UID:       uid,
		Method:    method,
		Path:      path,
		Payload:   payload,
	}

	// Stream JSON directly to disk buffer
	encoder := json.NewEncoder(f)
	return encoder.Encode(mutation)
}

// Pending returns the queued mutations in the order they failed.
// A missing or empty log yields no mutations.
func Pending() ([]SyncMutation, error) {
	content, err := filesystem.API().ReadFile(syncFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var mutations []SyncMutation
	decoder := json.NewDecoder(bytes.NewReader(content))
	for decoder.More() {
		var m SyncMutation
		if err := decoder.Decode(&m); err == nil {
			mutations = append(mutations, m)
		}
	}
	return mutations, nil
}

// ReconcileFailures initializes an asynchronous background process to replay previously failed account writes.
func ReconcileFailures() {
	go func() {
		mutations, err := Pending()
		if err != nil || len(mutations) == 0 {
			return
		}

		client := &http.Client{Timeout: 10 * time.Second}
		successCount := 0

		for i, m := range mutations {
			// Apply incremental delay with randomized jitter to manage request throttling.
			backoff := time.Duration((1<<i)*100)*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond
			time.Sleep(backoff)

			method := m.Method
			if method == "" {
				// Entries queued before the method was recorded.
				method = http.MethodPatch
			}

			req, err := http.NewRequest(method, viper.GetString(key.AccountAPIURL)+m.Path, bytes.NewBufferString(m.Payload))
			if err != nil {
				continue
			}

			// Use the stored authentication token if available.
			token, err := auth.GetToken()
			if err == nil && token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")

			resp, err := client.Do(req)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == 200 {
					successCount++
				}
			}
		}

		// Atomic state update: Drop the failure log if all operations successfully synchronized.
		if successCount == len(mutations) {
			_ = filesystem.API().Remove(syncFile())
		}
	}()
}
