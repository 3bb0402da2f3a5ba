// Command checkout-demo runs the full authorization pipeline end to end with
// local keys: issue an order authorization, read the payer's nonce, build the
// transfer authorization, and assemble the settle-ready bundle. Useful for
// verifying that a deployed executor accepts what this service produces.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/fanpay/fanpay-api/internal/config"
	"github.com/fanpay/fanpay-api/internal/constants"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/services"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/joho/godotenv"
)

func main() {
	var (
		buyerKey = flag.String("buyer-key", os.Getenv("DEMO_BUYER_KEY"), "buyer private key (hex)")
		to       = flag.String("to", os.Getenv("DEMO_MERCHANT_ADDRESS"), "merchant address receiving the tokens")
		clubID   = flag.String("club-id", "1", "club id")
		amount   = flag.String("amount", "30", "token amount (decimal)")
		nonceArg = flag.String("nonce", "", "override the ledger nonce (decimal); empty reads the ledger")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitLogger(cfg.Stage)

	if *buyerKey == "" || *to == "" {
		log.Fatal("buyer-key and to are required (flags or DEMO_BUYER_KEY / DEMO_MERCHANT_ADDRESS)")
	}

	serviceSigner, err := signing.NewLocalSigner(cfg.ServiceSigningKey)
	if err != nil {
		log.Fatalf("Failed to load service key: %v", err)
	}
	buyerSigner, err := signing.NewLocalSigner(*buyerKey)
	if err != nil {
		log.Fatalf("Failed to load buyer key: %v", err)
	}

	club, err := helpers.ParseUint256("club-id", *clubID)
	if err != nil {
		log.Fatalf("Invalid club id: %v", err)
	}
	units, err := helpers.ParseTokenAmount(*amount, constants.FanTokenDecimals)
	if err != nil {
		log.Fatalf("Invalid amount: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nonceReader, err := services.NewLedgerNonceReader(cfg.LedgerRPCURL, cfg.ExecutorAddress)
	if err != nil {
		log.Fatalf("Failed to connect to the ledger: %v", err)
	}

	orders := services.NewOrderAuthorizationService(serviceSigner)
	transfers := services.NewTransferAuthorizationService(cfg.ProtocolName, cfg.ProtocolVersion, cfg.DeadlineWindow, nonceReader)
	bundles := services.NewBundleService()

	chain := cfg.ChainContext()
	buyer := buyerSigner.Address()

	// The demo uses the current time as the order id; production callers
	// own idempotency and pick their own ids.
	orderID := big.NewInt(time.Now().Unix())

	order, err := orders.IssueOrderAuthorization(ctx, services.IssueOrderParams{
		OrderID: orderID,
		Buyer:   buyer.Hex(),
		ClubID:  club,
		Amount:  units,
		Chain:   chain,
	})
	if err != nil {
		log.Fatalf("Failed to issue order authorization: %v", err)
	}

	params := services.BuildTransferParams{
		ClubID: club,
		From:   buyer.Hex(),
		To:     *to,
		Amount: units,
		Chain:  chain,
	}
	if *nonceArg != "" {
		nonce, err := helpers.ParseUint256("nonce", *nonceArg)
		if err != nil {
			log.Fatalf("Invalid nonce: %v", err)
		}
		params.Nonce = nonce
	}

	signed, err := transfers.BuildTransferAuthorization(ctx, buyerSigner, params)
	if err != nil {
		log.Fatalf("Failed to build transfer authorization: %v", err)
	}

	bundle, err := bundles.Assemble(*order, signed.Authorization, signed.V, signed.R, signed.S)
	if err != nil {
		log.Fatalf("Failed to assemble bundle: %v", err)
	}

	out, err := json.MarshalIndent(bundle.SettleParams(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode settle params: %v", err)
	}
	fmt.Println(string(out))
}
