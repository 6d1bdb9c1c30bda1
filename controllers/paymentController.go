package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/mealplan-api/metrics"
	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/payments"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	sourceRedirect = "redirect"
	sourceWebhook  = "webhook"
)

type PaymentController struct {
	orders     *services.OrderService
	hmacSecret string
	log        logrus.FieldLogger
}

func NewPaymentController(orders *services.OrderService, hmacSecret string, log logrus.FieldLogger) *PaymentController {
	return &PaymentController{orders: orders, hmacSecret: hmacSecret, log: log}
}

func outcome(result payments.Result, order models.Order) string {
	switch {
	case result.Pending:
		return "pending"
	case order.Status == models.StatusPaid:
		return "paid"
	default:
		return "failed"
	}
}

// HandlePaymobResponse handles the customer redirect after the hosted payment page.
func (c *PaymentController) HandlePaymobResponse(ctx *gin.Context) {
	query := ctx.Request.URL.Query()
	if err := payments.VerifyQuery(c.hmacSecret, query); err != nil {
		metrics.RecordPaymentCallback(sourceRedirect, "invalid_signature")
		c.log.WithError(err).Warn("rejected paymob redirect")
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid payment signature")
		return
	}
	result, err := payments.ParseQuery(query)
	if err != nil {
		metrics.RecordPaymentCallback(sourceRedirect, "malformed")
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.orders.ApplyPayment(ctx.Request.Context(), result)
	switch {
	case errors.Is(err, services.ErrAmountMismatch):
		metrics.RecordPaymentCallback(sourceRedirect, "amount_mismatch")
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrInvalidTransition):
		metrics.RecordPaymentCallback(sourceRedirect, "ignored")
		sendJSONResponse(ctx, http.StatusConflict, gin.H{
			"success": false,
			"pending": false,
			"orderId": order.ID,
			"message": "This order can no longer be paid.",
		})
		return
	case err != nil:
		metrics.RecordPaymentCallback(sourceRedirect, "error")
		handleServiceError(ctx, err)
		return
	}

	state := outcome(result, order)
	metrics.RecordPaymentCallback(sourceRedirect, state)
	message := map[string]string{
		"paid":    "Payment successful. Your order is confirmed.",
		"pending": "Payment is being processed.",
		"failed":  "Payment failed. You can try again from your orders.",
	}[state]
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": state == "paid",
		"pending": result.Pending,
		"orderId": order.ID,
		"message": message,
	})
}

// HandlePaymobWebhook handles the processed-transaction callback. Results the order can no
// longer take are acknowledged so Paymob stops retrying them.
func (c *PaymentController) HandlePaymobWebhook(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	switch err := payments.VerifyTransaction(c.hmacSecret, body, ctx.Query("hmac")); {
	case errors.Is(err, payments.ErrMalformedPayload):
		metrics.RecordPaymentCallback(sourceWebhook, "malformed")
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	case err != nil:
		metrics.RecordPaymentCallback(sourceWebhook, "invalid_signature")
		c.log.WithError(err).WithField("client_ip", ctx.ClientIP()).Warn("rejected paymob webhook")
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid payment signature")
		return
	}

	result, err := payments.ParseTransaction(body)
	if err != nil {
		metrics.RecordPaymentCallback(sourceWebhook, "malformed")
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.orders.ApplyPayment(ctx.Request.Context(), result)
	switch {
	case errors.Is(err, services.ErrAmountMismatch):
		metrics.RecordPaymentCallback(sourceWebhook, "amount_mismatch")
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrInvalidTransition):
		metrics.RecordPaymentCallback(sourceWebhook, "ignored")
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "acknowledged", "status": order.Status})
		return
	case err != nil:
		metrics.RecordPaymentCallback(sourceWebhook, "error")
		handleServiceError(ctx, err)
		return
	}

	metrics.RecordPaymentCallback(sourceWebhook, outcome(result, order))
	c.log.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"status":         order.Status,
		"transaction_id": result.TransactionID,
	}).Info("paymob webhook applied")
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "received", "status": order.Status})
}
