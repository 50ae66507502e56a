package backoffice

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Defaults applied while decoding records.
const (
	DefaultCategory          = "Uncategorized"
	DefaultTransactionStatus = "Completed"
	DefaultApplicantPosition = "Pending Role"
	DefaultApplicantStatus   = "Pending"
	DefaultSalesValue        = "₱ 0.00"
	DefaultProfitValue       = "₱ 0.00"
	DefaultSoldValue         = "0"
)

// Product is a catalog entry with its current stock.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       string     `json:"price"`
	Stock       StockLevel `json:"stock"`
	LastRestock string     `json:"last_restock"`
}

// CategoryOrDefault returns the category used for grouping.
func (p Product) CategoryOrDefault() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// Status classifies the product stock.
func (p Product) Status() StockStatus {
	return ClassifyStock(p.Stock)
}

// User is a back-office account.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	VerifiedAt string `json:"verified_at"`
}

// Verified reports whether the user carries a verification timestamp.
func (u User) Verified() bool {
	return u.VerifiedAt != ""
}

// Transaction is a completed (or voided) sale.
type Transaction struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Cashier   string `json:"cashier"`
	Total     string `json:"total"`
	Status    string `json:"status"`
}

// Applicant is a pending staff application.
type Applicant struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	AppliedAt string `json:"applied_at"`
	Status    string `json:"status"`
}

// Summary carries the server computed sales figures.
type Summary struct {
	Sales  string `json:"sales"`
	Profit string `json:"profit"`
	Sold   string `json:"sold"`
}

// Snapshot is the immutable payload a page load works from.
type Snapshot struct {
	BaseURL      string        `json:"base_url"`
	SiteURL      string        `json:"site_url"`
	Products     []Product     `json:"products"`
	Users        []User        `json:"users"`
	Transactions []Transaction `json:"transactions"`
	Applicants   []Applicant   `json:"applicants"`
	Summary      Summary       `json:"summary"`
}

// EmptySnapshot returns a snapshot with every collection empty.
func EmptySnapshot() *Snapshot {
	return NormalizeSnapshot(&Snapshot{})
}

// NormalizeSnapshot replaces nil collections with empty ones and applies record
// defaults. It mutates and returns the given snapshot.
func NormalizeSnapshot(s *Snapshot) *Snapshot {
	if s == nil {
		s = &Snapshot{}
	}
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Applicants == nil {
		s.Applicants = []Applicant{}
	}
	for i := range s.Transactions {
		if s.Transactions[i].Status == "" {
			s.Transactions[i].Status = DefaultTransactionStatus
		}
	}
	for i := range s.Applicants {
		a := &s.Applicants[i]
		if a.Position == "" {
			a.Position = DefaultApplicantPosition
		}
		if a.Status == "" {
			a.Status = DefaultApplicantStatus
		}
	}
	return s
}

// DecodeSnapshot parses the JSON payload handed over by the server. It never
// fails: malformed payloads yield an empty snapshot and missing fields fall back
// to their defaults.
func DecodeSnapshot(data []byte) *Snapshot {
	if !gjson.ValidBytes(data) {
		return EmptySnapshot()
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return EmptySnapshot()
	}
	snap := &Snapshot{
		BaseURL: stringField(root, "baseUrl"),
		SiteURL: stringField(root, "siteUrl"),
		Summary: decodeSummary(root.Get("summary")),
	}
	eachObject(root.Get("products"), func(item gjson.Result) {
		snap.Products = append(snap.Products, decodeProduct(item))
	})
	eachObject(root.Get("users"), func(item gjson.Result) {
		snap.Users = append(snap.Users, User{
			ID:         firstTruthy(item, "id", "user_id"),
			Username:   item.Get("username").String(),
			Email:      item.Get("email").String(),
			VerifiedAt: firstTruthy(item, "updated_at"),
		})
	})
	eachObject(root.Get("transactions"), func(item gjson.Result) {
		snap.Transactions = append(snap.Transactions, Transaction{
			ID:        item.Get("id").String(),
			Timestamp: firstTruthy(item, "datetime", "date"),
			Cashier:   item.Get("cashier").String(),
			Total:     item.Get("total").String(),
			Status:    firstTruthy(item, "status"),
		})
	})
	eachObject(root.Get("applicants"), func(item gjson.Result) {
		snap.Applicants = append(snap.Applicants, Applicant{
			Name:      firstTruthy(item, "name", "username"),
			Position:  firstTruthy(item, "position"),
			AppliedAt: firstTruthy(item, "date", "updated_at"),
			Status:    firstTruthy(item, "status"),
		})
	})
	return NormalizeSnapshot(snap)
}

func decodeProduct(item gjson.Result) Product {
	return Product{
		ID:          firstTruthy(item, "id", "product_id"),
		Name:        item.Get("name").String(),
		Category:    item.Get("category").String(),
		Price:       firstTruthy(item, "price"),
		Stock:       decodeStock(item.Get("stock")),
		LastRestock: item.Get("last_restock").String(),
	}
}

func decodeStock(value gjson.Result) StockLevel {
	switch value.Type {
	case gjson.Null:
		if !value.Exists() {
			return UnknownStock("")
		}
		return StockLevel{Known: true}
	case gjson.False:
		return StockLevel{Raw: "false", Known: true}
	case gjson.True:
		return StockLevel{Raw: "true", Value: 1, Known: true}
	case gjson.Number:
		return StockLevel{Raw: value.Raw, Value: value.Num, Known: true}
	case gjson.String:
		return ParseStock(value.Str)
	default:
		return UnknownStock(value.Raw)
	}
}

func decodeSummary(value gjson.Result) Summary {
	summary := Summary{}
	if value.IsObject() {
		summary.Sales = firstTruthy(value, "sales")
		summary.Profit = firstTruthy(value, "profit")
		summary.Sold = firstTruthy(value, "sold")
	}
	return summary
}

func stringField(obj gjson.Result, key string) string {
	value := obj.Get(key)
	if value.Type != gjson.String {
		return ""
	}
	return value.Str
}

// firstTruthy returns the first field that is present and not falsy
// (null, false, zero, or empty string).
func firstTruthy(obj gjson.Result, keys ...string) string {
	for _, key := range keys {
		value := obj.Get(key)
		if !value.Exists() {
			continue
		}
		switch value.Type {
		case gjson.Null, gjson.False:
			continue
		case gjson.String:
			if value.Str == "" {
				continue
			}
			return value.Str
		case gjson.Number:
			if value.Num == 0 {
				continue
			}
			return value.Raw
		default:
			return value.String()
		}
	}
	return ""
}

func eachObject(list gjson.Result, fn func(gjson.Result)) {
	if !list.IsArray() {
		return
	}
	list.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			fn(item)
		}
		return true
	})
}

// SnapshotProvider supplies the snapshot for a new page load.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// SnapshotProviderFunc adapts a function into a SnapshotProvider.
type SnapshotProviderFunc func(ctx context.Context) (*Snapshot, error)

// Snapshot implements SnapshotProvider.
func (fn SnapshotProviderFunc) Snapshot(ctx context.Context) (*Snapshot, error) {
	return fn(ctx)
}

// StaticSnapshotProvider always returns the same snapshot.
type StaticSnapshotProvider struct {
	data *Snapshot
}

// NewStaticSnapshotProvider normalizes the snapshot once and serves it as is.
func NewStaticSnapshotProvider(snapshot *Snapshot) StaticSnapshotProvider {
	return StaticSnapshotProvider{data: NormalizeSnapshot(snapshot)}
}

// Snapshot implements SnapshotProvider.
func (p StaticSnapshotProvider) Snapshot(context.Context) (*Snapshot, error) {
	if p.data == nil {
		return EmptySnapshot(), nil
	}
	return p.data, nil
}

// FileSnapshotProvider reads a JSON payload from disk on every call.
type FileSnapshotProvider struct {
	Path string
}

// Snapshot implements SnapshotProvider.
func (p FileSnapshotProvider) Snapshot(context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("backoffice: read snapshot %s: %w", p.Path, err)
	}
	return DecodeSnapshot(data), nil
}
