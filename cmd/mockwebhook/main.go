// Command mockwebhook sends a signed charge.completed delivery to a local
// server, the way the gateway would.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/config"
	"storefront/internal/webhook"
)

type chargeData struct {
	ID                int64  `json:"id"`
	TxRef             string `json:"tx_ref"`
	FlwRef            string `json:"flw_ref"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	PaymentType       string `json:"payment_type"`
	ProcessorResponse string `json:"processor_response"`
	CreatedAt         string `json:"created_at"`
}

type payload struct {
	Event string     `json:"event"`
	Data  chargeData `json:"data"`
}

func main() {
	cfg := config.Load()

	url := flag.String("url", "http://localhost:"+cfg.Server.Port+"/webhook/", "Webhook URL")
	secret := flag.String("secret", cfg.Flutterwave.SecretHash, "Secret hash (defaults to FLUTTERWAVE_SECRET_HASH)")
	event := flag.String("event", "charge.completed", "Event type")
	txRef := flag.String("tx-ref", "", "Transaction reference of the payment (required)")
	status := flag.String("status", "successful", "Transaction status (successful, failed, cancelled, pending)")
	amount := flag.String("amount", "50.00", "Amount")
	currency := flag.String("currency", cfg.Flutterwave.Currency, "Currency")
	paymentType := flag.String("payment-type", "card", "Payment type")
	reason := flag.String("processor-response", "", "Processor response for failed charges")
	dryRun := flag.Bool("dry-run", false, "Only print signature and body, don't send")

	flag.Parse()

	if *txRef == "" {
		fmt.Fprintln(os.Stderr, "Error: -tx-ref is required")
		os.Exit(2)
	}

	body, err := json.Marshal(payload{
		Event: *event,
		Data: chargeData{
			ID:                time.Now().UnixNano() % 1_000_000_000,
			TxRef:             *txRef,
			FlwRef:            "FLW-MOCK-" + strings.ToUpper(uuid.NewString()[:8]),
			Amount:            *amount,
			Currency:          *currency,
			Status:            *status,
			PaymentType:       *paymentType,
			ProcessorResponse: *reason,
			CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	var signature string
	if *secret != "" {
		signature, err = webhook.Sign(*secret, body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error signing payload: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("verif-hash: %s\n", signature)
	fmt.Printf("Body: %s\n", body)

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("verif-hash", signature)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", respBody)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
