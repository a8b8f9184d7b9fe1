package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-chat/db"
	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeGzip(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestEmbeddedMenuMatchesDefaults(t *testing.T) {
	items, err := decodeMenuBytes(db.MenuSeed)
	require.NoError(t, err)
	assert.Equal(t, menu.DefaultItems, mergeItems(items))
	assert.NoError(t, validateItems(items, chat.DefaultMaxInput))
}

func TestLoadMenuFiles(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, "a.json",
		`[{"code":12,"name":"Burger","price":1800,"extra":true},{"code":10,"name":"Jollof Rice","price":2500}]`)
	gz := writeGzip(t, dir, "b.json.gz",
		`[{"code":10,"name":"Jollof Rice","price":2700,"description":"Spicy"}]`)

	items, err := loadMenuFiles(context.Background(), []string{plain, gz})
	require.NoError(t, err)
	assert.Equal(t, []menu.Item{
		{Code: 10, Name: "Jollof Rice", Price: 2700, Description: "Spicy"},
		{Code: 12, Name: "Burger", Price: 1800},
	}, items)
}

func TestLoadMenuFiles_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadMenuFiles(context.Background(), []string{filepath.Join(dir, "missing.json")})
	assert.ErrorContains(t, err, "open")

	bad := writeFile(t, dir, "bad.json", `{"code":10}`)
	_, err = loadMenuFiles(context.Background(), []string{bad})
	assert.ErrorContains(t, err, "decode")

	notGzip := writeFile(t, dir, "plain.json.gz", `[]`)
	_, err = loadMenuFiles(context.Background(), []string{notGzip})
	assert.ErrorContains(t, err, "gzip")
}

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []menu.Item
		wantErr string
	}{
		{"valid", []menu.Item{{Code: 10, Name: "Rice", Price: 100}}, ""},
		{"empty", nil, "menu is empty"},
		{"reserved", []menu.Item{{Code: chat.CodeCheckout, Name: "Rice"}}, "reserved command code 99"},
		{"out of range", []menu.Item{{Code: 1000, Name: "Rice"}}, "outside 0..999"},
		{"no name", []menu.Item{{Code: 10, Name: " "}}, "no name"},
		{"negative price", []menu.Item{{Code: 10, Name: "Rice", Price: -1}}, "negative price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItems(tt.items, chat.DefaultMaxInput)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.json", "b.json.gz"}, splitList(" a.json, ,b.json.gz "))
	assert.Nil(t, splitList(""))
}
