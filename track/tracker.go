// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package track records training runs: parameters, metrics and artifacts.
// FileTracker persists runs under a local directory; the storage backend of
// a full experiment-tracking service is out of scope.
package track

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
)

// Tracker starts experiment runs.
type Tracker interface {
	StartRun(name string) (Run, error)
}

// Run records one training run.
type Run interface {
	LogParam(key string, value interface{})
	LogMetric(key string, value float64)
	LogArtifact(name string, data []byte) error
	End() error
}

// FileTracker persists runs as
// <root>/<experiment>/<run id>/{run.json, artifacts/}.
type FileTracker struct {
	root       string
	experiment string
}

// NewFileTracker creates a tracker rooted at a local directory.
func NewFileTracker(root, experiment string) *FileTracker {
	return &FileTracker{root: root, experiment: experiment}
}

func (t *FileTracker) StartRun(name string) (Run, error) {
	runId := uuid.New().String()
	dir := filepath.Join(t.root, t.experiment, runId)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("start run",
		zap.String("experiment", t.experiment),
		zap.String("run", runId),
		zap.String("name", name))
	return &fileRun{
		dir:     dir,
		name:    name,
		runId:   runId,
		started: time.Now(),
		params:  make(map[string]interface{}),
		metrics: make(map[string]float64),
	}, nil
}

type fileRun struct {
	dir     string
	name    string
	runId   string
	started time.Time
	params  map[string]interface{}
	metrics map[string]float64
}

func (r *fileRun) LogParam(key string, value interface{}) {
	r.params[key] = value
}

func (r *fileRun) LogMetric(key string, value float64) {
	r.metrics[key] = value
}

func (r *fileRun) LogArtifact(name string, data []byte) error {
	dir := filepath.Join(r.dir, "artifacts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func (r *fileRun) End() error {
	record := struct {
		Name     string                 `json:"name"`
		RunID    string                 `json:"run_id"`
		Started  time.Time              `json:"started"`
		Finished time.Time              `json:"finished"`
		Params   map[string]interface{} `json:"params"`
		Metrics  map[string]float64     `json:"metrics"`
	}{
		Name:     r.name,
		RunID:    r.runId,
		Started:  r.started,
		Finished: time.Now(),
		Params:   r.params,
		Metrics:  r.metrics,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.WriteFile(filepath.Join(r.dir, "run.json"), data, 0644))
}

// NopTracker discards everything. Useful in tests.
type NopTracker struct{}

func (NopTracker) StartRun(string) (Run, error) {
	return nopRun{}, nil
}

type nopRun struct{}

func (nopRun) LogParam(string, interface{})     {}
func (nopRun) LogMetric(string, float64)        {}
func (nopRun) LogArtifact(string, []byte) error { return nil }
func (nopRun) End() error                       { return nil }
