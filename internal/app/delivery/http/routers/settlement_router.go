package routers

import (
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachSettlementRouter(router chi.Router, ctrl *controllers.SettlementController) {
	router.Route("/cases/{caseID}/settlements", func(r chi.Router) {
		r.Post("/", ctrl.TriggerSettlement)
		r.Post("/resettle", ctrl.RequestResettle)
		r.Get("/", ctrl.GetSettlement)
	})

	// Synchronous receipt delivery from ledgers without queue access.
	router.Post("/receipts", ctrl.HandleReceiptWebhook)
}
