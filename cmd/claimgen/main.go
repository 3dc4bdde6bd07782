// Command claimgen issues claim tokens for physical items.
//
// Single item:
//
//	CLAIM_SECRET=... claimgen -serial 42 -color Black -type HUGMUG -qr 42.png
//
// Batch, reading serialNumber,color,productType rows and writing the same
// rows with token and url columns appended:
//
//	CLAIM_SECRET=... claimgen -csv items.csv -stickers > tokens.csv
//
// With -stickers a QR image per row is stored in STICKER_DIR, or in
// STICKER_S3_BUCKET when set, and a sticker column holds its location.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/config"
	"github.com/hugmug/claimkit/pkg/file"
	"github.com/hugmug/claimkit/pkg/qrcode"
)

type genConfig struct {
	Secret   string `env:"CLAIM_SECRET,required,unset"`
	BaseURL  string `env:"CLAIM_BASE_URL" envDefault:"https://hugmug.app/claim"`
	Stickers file.Config
}

var errUsage = errors.New("either -serial, -color and -type or -csv must be given")

func main() {
	var cfg genConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "claimgen: %v\n", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "claimgen: %v\n", err)
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, cfg genConfig, stdout io.Writer) error {
	fs := flag.NewFlagSet("claimgen", flag.ContinueOnError)
	var (
		serial   = fs.Uint64("serial", 0, "serial number of the item")
		color    = fs.String("color", "", "item color")
		kind     = fs.String("type", "", "product type")
		baseURL  = fs.String("base-url", cfg.BaseURL, "claim page URL the token is appended to")
		qrFile   = fs.String("qr", "", "write a QR code PNG for the claim URL to this file")
		csvFile  = fs.String("csv", "", "issue tokens for every row of this CSV file")
		stickers = fs.Bool("stickers", false, "with -csv, store a QR code per row as <type>/<serial>.png")
		qrSize   = fs.Int("qr-size", 512, "QR code size in pixels")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := []byte(cfg.Secret)
	q := qrOptions{size: *qrSize}

	if *csvFile != "" {
		f, err := os.Open(*csvFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if *stickers {
			store, err := file.New(context.Background(), cfg.Stickers)
			if err != nil {
				return err
			}
			q.store = store
		}
		return issueBatch(context.Background(), f, stdout, key, *baseURL, q)
	}

	if *serial == 0 && *color == "" && *kind == "" {
		fs.Usage()
		return errUsage
	}
	rec := claimtoken.ClaimRecord{SerialNumber: *serial, Color: *color, ProductType: *kind}
	token, url, err := issue(rec, key, *baseURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "token: %s\nurl:   %s\n", token, url)

	if *qrFile != "" {
		return q.write(*qrFile, url)
	}
	return nil
}

func issue(rec claimtoken.ClaimRecord, key []byte, baseURL string) (token, url string, err error) {
	token, err = claimtoken.Issue(rec, key)
	if err != nil {
		return "", "", fmt.Errorf("serial %d: %w", rec.SerialNumber, err)
	}
	return token, qrcode.ClaimURL(baseURL, token), nil
}

type qrOptions struct {
	store file.Storage
	size  int
}

func (q qrOptions) write(path, url string) error {
	png, err := qrcode.Generate(url, q.size)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

// upload stores the QR code for rec and returns its location.
func (q qrOptions) upload(ctx context.Context, rec claimtoken.ClaimRecord, url string) (string, error) {
	png, err := qrcode.Generate(url, q.size)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(rec.ProductType) + "/" + strconv.FormatUint(rec.SerialNumber, 10) + ".png"
	return q.store.Put(ctx, name, png, "image/png")
}

// issueBatch reads serialNumber,color,productType rows. A first row whose
// serial column is not a number is treated as a header and copied through.
func issueBatch(ctx context.Context, in io.Reader, out io.Writer, key []byte, baseURL string, q qrOptions) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true
	w := csv.NewWriter(out)

	for line := 1; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		serial, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			if line == 1 {
				header := append(row, "token", "url")
				if q.store != nil {
					header = append(header, "sticker")
				}
				if err := w.Write(header); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("line %d: invalid serial number %q", line, row[0])
		}

		rec := claimtoken.ClaimRecord{
			SerialNumber: serial,
			Color:        strings.TrimSpace(row[1]),
			ProductType:  strings.TrimSpace(row[2]),
		}
		token, url, err := issue(rec, key, baseURL)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		record := append(row, token, url)
		if q.store != nil {
			loc, err := q.upload(ctx, rec, url)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			record = append(record, loc)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
