package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	api "polemos/pkg/polemos"
)

func loadRunRequestFromConfig(path string) (api.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return api.RunRequest{}, fmt.Errorf("parse run config %s: %w", path, err)
	}

	var req api.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asInt(raw["population"]); ok {
		req.Population = v
	}
	if v, ok := asInt(raw["cycles"]); ok {
		req.Cycles = v
	}
	if v, ok := asInt(raw["speed"]); ok {
		req.Speed = v
	}
	if v, ok := asInt(raw["rounds"]); ok {
		req.Rounds = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["init"]); ok {
		req.Init = v
	}
	if v, ok := asInt(raw["plot_step"]); ok {
		req.PlotStep = v
	}
	return req, nil
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
