package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"maybeowned/internal/version"
)

func TestRenderRegistryJSON(t *testing.T) {
	reg, err := demoConfig().build()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := renderRegistry(&buf, reg, "json"); err != nil {
		t.Fatalf("render: %v", err)
	}

	var payload struct {
		Name     string `json:"name"`
		Owned    int    `json:"owned"`
		Borrowed int    `json:"borrowed"`
		Entries  []struct {
			Key   string `json:"key"`
			State string `json:"state"`
			Entry struct {
				Text string `json:"text"`
			} `json:"entry"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if payload.Name != "demo" || payload.Owned != 1 || payload.Borrowed != 2 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Entries[0].Key != "lucy" || payload.Entries[0].State != "borrowed" || payload.Entries[0].Entry.Text != "--missing--" {
		t.Fatalf("first entry = %+v", payload.Entries[0])
	}
}

func TestRenderRegistryYAML(t *testing.T) {
	reg, err := demoConfig().build()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := renderRegistry(&buf, reg, "yaml"); err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	entries, ok := payload["entries"].([]any)
	if !ok || len(entries) != 3 {
		t.Fatalf("entries = %#v", payload["entries"])
	}
	tom := entries[2].(map[string]any)
	if tom["key"] != "tom" || tom["entry"].(map[string]any)["text"] != "abc" {
		t.Fatalf("tom = %#v", tom)
	}
}

func TestVersionDoc(t *testing.T) {
	info := version.Info{Version: "0.3.1", GitCommit: "abc123", BuildDate: "2026-01-02"}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newVersionDoc(info, fieldCommit)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"tool": "maybeowned"`, `"version": "0.3.1"`, `"git_commit": "abc123"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "build_date") {
		t.Errorf("build_date should be omitted:\n%s", out)
	}

	doc := newVersionDoc(version.Info{Version: "0.3.1"}, fieldAll)
	if doc.GitCommit != "unknown" || doc.GitMessage != "unknown" || doc.BuildDate != "unknown" {
		t.Fatalf("missing fields should read unknown: %+v", doc)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: 0.3.1") || !strings.Contains(string(data), "tagline: ") {
		t.Fatalf("yaml = %s", data)
	}
}

func TestRenderVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, "0.3.1", version.Info{GitCommit: "abc", Modified: true}, fieldCommit)
	want := "maybeowned 0.3.1: yours, mine, or borrowed\ncommit:  abc (modified)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
