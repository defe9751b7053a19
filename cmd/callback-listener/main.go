package main

import (
	"log"
	"net/http"

	"github.com/Mokereri/hotel-kitchen-api/callback"
	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/events"
	"github.com/Mokereri/hotel-kitchen-api/initializers"
	"github.com/Mokereri/hotel-kitchen-api/metrics"
	"github.com/Mokereri/hotel-kitchen-api/routes"
	"github.com/Mokereri/hotel-kitchen-api/store"
	"github.com/Mokereri/hotel-kitchen-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var cfg initializers.Config

func init() {
	initializers.LoadEnv()
	cfg = initializers.ReadConfig()
	if err := cfg.Require("DB_DSN"); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	initializers.ConnectToDB(cfg)
	initializers.SyncDatabase()
}

func main() {
	var notifiers []callback.PaymentNotifier

	if cfg.AMQPURL != "" {
		conn, ch, err := events.SetupConn(cfg.AMQPURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		defer ch.Close()
		notifiers = append(notifiers, events.NewPublisher(ch))
	} else {
		log.Println("AMQP_URL not set, order.paid events will not be published.")
	}

	if cfg.SMTPAddress != "" {
		notifiers = append(notifiers, utils.NewMailer(utils.SMTPConfig{
			From:     cfg.FromEmail,
			Password: cfg.FromEmailPassword,
			Host:     cfg.FromEmailSMTP,
			Address:  cfg.SMTPAddress,
		}))
	}

	reconciler := callback.NewReconciler(
		store.NewOrderStore(initializers.DB),
		metrics.NewPaymentMetrics(prometheus.DefaultRegisterer),
		notifiers...,
	)
	controllers.Setup(controllers.Dependencies{Reconciler: reconciler})

	server := gin.New()
	server.Use(gin.Logger())
	server.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		log.Printf("Panic in callback listener: %v", recovered)
		resp := callback.InternalError()
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, resp.Ack)
	}))
	server.Use(metrics.NewServerMetrics("callback", prometheus.DefaultRegisterer).Middleware())

	routes.OpsRoutes(server)
	routes.CallbackRoutes(server)

	log.Printf("M-Pesa callback listener on :%s", cfg.CallbackPort)
	if err := server.Run(":" + cfg.CallbackPort); err != nil {
		log.Fatal(err)
	}
}
