package data

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
)

// Column headers of the tracking sheet, in column order A..M
var SheetHeaders = []string{
	"Timestamp Recebido",
	"Origem",
	"Remetente",
	"Conteúdo Original",
	"Resumo",
	"Prioridade",
	"Prazo ISO",
	"Prazo BR",
	"Status",
	"Projeto/Cliente",
	"Fonte",
	"ID Mensagem",
	"Observações",
}

const (
	messageIDColumn = "L"
	lastColumn      = "M"
	existsCacheTTL  = 5 * time.Minute
)

// SheetsConfig locates the spreadsheet and its service account
type SheetsConfig struct {
	ClientEmail string
	PrivateKey  string
	SheetID     string
	SheetTab    string
	Location    *time.Location
}

// sheetsDemandRepo stores demands as rows of a Google Sheet
type sheetsDemandRepo struct {
	svc     *sheets.Service
	sheetID string
	tab     string
	loc     *time.Location
	retry   retryPolicy

	mu       sync.Mutex
	ids      map[string]bool
	loadedAt time.Time
	now      func() time.Time
}

// NewSheetsDemandRepo authenticates with the service account and
// returns a sheet-backed demand store
func NewSheetsDemandRepo(ctx context.Context, cfg SheetsConfig) (repo.DemandRepo, error) {
	jwtConf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return newSheetsDemandRepo(svc, cfg), nil
}

func newSheetsDemandRepo(svc *sheets.Service, cfg SheetsConfig) *sheetsDemandRepo {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &sheetsDemandRepo{
		svc:     svc,
		sheetID: cfg.SheetID,
		tab:     cfg.SheetTab,
		loc:     loc,
		retry:   defaultRetryPolicy(),
		now:     time.Now,
	}
}

func (r *sheetsDemandRepo) rangeOf(cols string) string {
	return fmt.Sprintf("%s!%s", r.tab, cols)
}

// Exists checks the message ID column, cached for a few minutes
func (r *sheetsDemandRepo) Exists(ctx context.Context, messageID string) (bool, error) {
	r.mu.Lock()
	fresh := r.ids != nil && r.now().Sub(r.loadedAt) < existsCacheTTL
	if fresh {
		found := r.ids[messageID]
		r.mu.Unlock()
		return found, nil
	}
	r.mu.Unlock()

	col := messageIDColumn + ":" + messageIDColumn
	var vr *sheets.ValueRange
	err := r.retry.do(ctx, "read message IDs", func() error {
		var err error
		vr, err = r.svc.Spreadsheets.Values.Get(r.sheetID, r.rangeOf(col)).Context(ctx).Do()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to read message IDs: %w", err)
	}

	ids := make(map[string]bool, len(vr.Values))
	for _, row := range vr.Values {
		if len(row) > 0 {
			if id := cellString(row[0]); id != "" {
				ids[id] = true
			}
		}
	}

	r.mu.Lock()
	r.ids = ids
	r.loadedAt = r.now()
	r.mu.Unlock()
	return ids[messageID], nil
}

// Append writes one row with user-entered semantics
func (r *sheetsDemandRepo) Append(ctx context.Context, d *domain.Demand) error {
	row := demandToRow(d, r.loc)
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	err := r.retry.do(ctx, "append row", func() error {
		_, err := r.svc.Spreadsheets.Values.Append(r.sheetID, r.rangeOf("A:"+lastColumn), vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	r.mu.Lock()
	if r.ids != nil && d.MessageID != "" {
		r.ids[d.MessageID] = true
	}
	r.mu.Unlock()
	return nil
}

// List reads every data row, mapping cells by header name
func (r *sheetsDemandRepo) List(ctx context.Context) ([]domain.Demand, error) {
	var vr *sheets.ValueRange
	err := r.retry.do(ctx, "read rows", func() error {
		var err error
		vr, err = r.svc.Spreadsheets.Values.Get(r.sheetID, r.rangeOf("A:"+lastColumn)).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rowsToDemands(vr.Values, r.loc), nil
}

// Ping fetches spreadsheet metadata
func (r *sheetsDemandRepo) Ping(ctx context.Context) error {
	_, err := r.svc.Spreadsheets.Get(r.sheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to reach spreadsheet: %w", err)
	}
	return nil
}

func demandToRow(d *domain.Demand, loc *time.Location) []interface{} {
	rec := d.Record
	return []interface{}{
		d.ReceivedAt.In(loc).Format(domain.ReceivedAtLayout),
		d.Origin,
		d.Sender,
		rec.OriginalText,
		rec.Summary,
		string(rec.Priority),
		rec.DeadlineISO,
		rec.DeadlineDisplay,
		string(rec.Status),
		rec.Project,
		d.Source,
		d.MessageID,
		d.Notes,
	}
}

// rowsToDemands treats the first row as the header row.
// Unknown or missing headers fall back to the default column order.
func rowsToDemands(rows [][]interface{}, loc *time.Location) []domain.Demand {
	if len(rows) == 0 {
		return nil
	}

	index := make(map[string]int, len(SheetHeaders))
	for i, h := range rows[0] {
		index[strings.TrimSpace(cellString(h))] = i
	}
	for i, h := range SheetHeaders {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}

	var result []domain.Demand
	for _, row := range rows[1:] {
		get := func(header string) string {
			i := index[header]
			if i < len(row) {
				return strings.TrimSpace(cellString(row[i]))
			}
			return ""
		}

		d := domain.Demand{
			Origin:    get("Origem"),
			Sender:    get("Remetente"),
			Source:    get("Fonte"),
			MessageID: get("ID Mensagem"),
			Notes:     get("Observações"),
			Record: domain.ParsedRecord{
				OriginalText: get("Conteúdo Original"),
				Summary:      get("Resumo"),
				Priority:     domain.Priority(get("Prioridade")),
				Status:       domain.Status(get("Status")),
				Project:      get("Projeto/Cliente"),
			},
		}
		if t, err := time.ParseInLocation(domain.ReceivedAtLayout, get("Timestamp Recebido"), loc); err == nil {
			d.ReceivedAt = t
		}
		if dl, ok := normalizeDeadline(get("Prazo ISO"), get("Prazo BR"), loc); ok {
			d.Record.DeadlineISO = dl.ISO
			d.Record.DeadlineDisplay = dl.Display
		}
		if d.Record.OriginalText == "" && d.Record.Summary == "" && d.MessageID == "" {
			continue
		}
		result = append(result, d)
	}
	return result
}

// normalizeDeadline accepts the ISO cell as written or as re-formatted
// by the sheet, falling back to the display cell
func normalizeDeadline(iso, display string, loc *time.Location) (domain.Deadline, bool) {
	layouts := []string{domain.ISODateLayout, "02/01/2006", domain.DisplayDateLayout}
	for _, v := range []string{iso, display} {
		if v == "" {
			continue
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, v, loc); err == nil {
				return domain.NewDeadline(t), true
			}
		}
	}
	return domain.Deadline{}, false
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
