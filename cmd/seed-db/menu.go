package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
)

// loadMenuFiles reads every file concurrently and merges the items. A code
// appearing in several files keeps the entry from the last file listed.
func loadMenuFiles(ctx context.Context, paths []string) ([]menu.Item, error) {
	parsed := make([][]menu.Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := readMenuFile(path)
			if err != nil {
				return err
			}
			slog.Info("read menu file", slog.String("path", path), slog.Int("items", len(items)))
			parsed[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []menu.Item
	for _, items := range parsed {
		all = append(all, items...)
	}
	return mergeItems(all), nil
}

// readMenuFile decodes a JSON menu file, gunzipping it when the name ends in
// ".gz".
func readMenuFile(path string) ([]menu.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	items, err := decodeMenu(jx.Decode(r, 4096))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return items, nil
}

// decodeMenu reads [{"code":10,"name":"...","price":2500,"description":"..."}].
func decodeMenu(d *jx.Decoder) ([]menu.Item, error) {
	var items []menu.Item
	err := d.Arr(func(d *jx.Decoder) error {
		var it menu.Item
		if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			var err error
			switch string(key) {
			case "code":
				it.Code, err = d.Int()
			case "name":
				it.Name, err = d.Str()
			case "price":
				it.Price, err = d.Int64()
			case "description":
				it.Description, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}

func decodeMenuBytes(data []byte) ([]menu.Item, error) {
	return decodeMenu(jx.DecodeBytes(data))
}

// mergeItems keeps the last entry per code and sorts by code.
func mergeItems(items []menu.Item) []menu.Item {
	byCode := make(map[int]menu.Item, len(items))
	for _, it := range items {
		byCode[it.Code] = it
	}
	out := make([]menu.Item, 0, len(byCode))
	for _, it := range byCode {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b menu.Item) int { return a.Code - b.Code })
	return out
}

// validateItems rejects codes the chat protocol cannot address.
func validateItems(items []menu.Item, maxInput int) error {
	if len(items) == 0 {
		return errors.New("menu is empty")
	}
	for _, it := range items {
		switch {
		case chat.Reserved(it.Code):
			return errors.Errorf("item %q uses reserved command code %d", it.Name, it.Code)
		case it.Code < 0 || it.Code > maxInput:
			return errors.Errorf("item %q code %d outside 0..%d", it.Name, it.Code, maxInput)
		case strings.TrimSpace(it.Name) == "":
			return errors.Errorf("item %d has no name", it.Code)
		case it.Price < 0:
			return errors.Errorf("item %q has negative price", it.Name)
		}
	}
	return nil
}
