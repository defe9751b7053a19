package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mokereri/hotel-kitchen-api/events"
	"github.com/Mokereri/hotel-kitchen-api/initializers"
	"github.com/Mokereri/hotel-kitchen-api/ledger"
)

const queueName = "ledger.order_paid"

func main() {
	initializers.LoadEnv()
	cfg := initializers.ReadConfig()
	if err := cfg.Require("AMQP_URL", "ZOHO_CLIENT_ID", "ZOHO_CLIENT_SECRET", "ZOHO_REFRESH_TOKEN",
		"ZOHO_ORGANIZATION_ID", "ZOHO_MPESA_ACCOUNT_ID", "ZOHO_SALES_ACCOUNT_ID"); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	conn, ch, err := events.SetupConn(cfg.AMQPURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	defer ch.Close()

	poster := ledger.NewPoster(ledger.NewClient(ledger.Config{
		AccountsURL:    cfg.ZohoAccountsURL,
		BooksURL:       cfg.ZohoBooksURL,
		ClientID:       cfg.ZohoClientID,
		ClientSecret:   cfg.ZohoClientSecret,
		RefreshToken:   cfg.ZohoRefreshToken,
		OrganizationID: cfg.ZohoOrganizationID,
		CashAccountID:  cfg.ZohoCashAccountID,
		SalesAccountID: cfg.ZohoSalesAccountID,
		CurrencyID:     cfg.ZohoCurrencyID,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := events.NewSubscriber(ch).SubscribeOrderPaid(ctx, queueName, poster.HandleOrderPaid); err != nil {
		log.Fatal(err)
	}
	log.Printf("Ledger worker consuming %s", queueName)

	<-ctx.Done()
	log.Println("Ledger worker shutting down.")
}
