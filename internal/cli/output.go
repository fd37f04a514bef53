package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ironhall/kiosk/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Client:
		o.printClient(v)
	case []model.Sheet:
		o.printSheets(v)
	case model.Bootstrap:
		o.printBootstrap(v)
	case ScanResult:
		o.printScanResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ScanResult is the outcome of a manual RFID capture
type ScanResult struct {
	ScanID  string `json:"scanID"`
	SheetID string `json:"sheetID,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printClient(c model.Client) {
	fmt.Printf("Badge: %s\n", c.BSID)
	fmt.Printf("Name: %s\n", c.Name)
	if c.Email != "" {
		fmt.Printf("Email: %s\n", c.Email)
	}
	if c.ID != "" {
		fmt.Printf("RFID Tag: %s\n", c.ID)
	}
	if !c.Expiration.IsZero() {
		fmt.Printf("Expires: %s\n", c.Expiration.Format("2006-01-02"))
		if c.Expired(time.Now()) {
			fmt.Println("Membership: EXPIRED")
		}
	}
	if c.Debt {
		fmt.Println("Debt: yes")
	}
	if c.Photo != "" {
		fmt.Printf("Photo: %s\n", c.Photo)
	}
}

func (o *Output) printSheets(sheets []model.Sheet) {
	fmt.Printf("Sheets (%d):\n", len(sheets))
	for _, s := range sheets {
		fmt.Printf("  - %s (%s)\n", s.Name, s.ID)
	}
}

func (o *Output) printBootstrap(b model.Bootstrap) {
	fmt.Printf("Logged in as: %s\n", b.Email)
	if b.SheetID != "" {
		fmt.Printf("Active sheet: %s\n", b.SheetID)
	} else {
		fmt.Println("Active sheet: none")
	}
	o.printSheets(b.Sheets)
	if b.ClientError != "" {
		fmt.Printf("Lookup error: %s\n", b.ClientError)
	}
	if b.Client.BSID != "" {
		fmt.Println()
		o.printClient(b.Client)
	}
}

func (o *Output) printScanResult(s ScanResult) {
	fmt.Printf("Tag captured: %s\n", s.ScanID)
	if s.SheetID != "" {
		fmt.Printf("Sheet: %s\n", s.SheetID)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
