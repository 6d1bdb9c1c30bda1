// Package payments talks to the Paymob Accept gateway and verifies its callbacks.
package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrMissingSignature = errors.New("missing hmac signature")
	ErrInvalidSignature = errors.New("hmac signature mismatch")
	ErrMalformedPayload = errors.New("malformed transaction payload")
)

// signedFields is the order Paymob concatenates transaction fields in before signing.
var signedFields = []string{
	"amount_cents",
	"created_at",
	"currency",
	"error_occured",
	"has_parent_transaction",
	"id",
	"integration_id",
	"is_3d_secure",
	"is_auth",
	"is_capture",
	"is_refunded",
	"is_standalone_payment",
	"is_voided",
	"order.id",
	"owner",
	"pending",
	"source_data.pan",
	"source_data.sub_type",
	"source_data.type",
	"success",
}

// Result is the part of a transaction callback the order flow acts on.
type Result struct {
	TransactionID   string
	PaymobOrderID   string
	MerchantOrderID string
	AmountCents     int64
	Success         bool
	Pending         bool
}

// Sign computes the lowercase hex HMAC-SHA512 of the concatenated values.
func Sign(secret string, values []string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(values, "")))
	return hex.EncodeToString(mac.Sum(nil))
}

func matches(secret string, values []string, received string) bool {
	expected := Sign(secret, values)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(received))))
}

// queryValues pulls the signed fields out of the redirect callback query string.
// The redirect flattens order.id into the "order" key.
func queryValues(query url.Values) []string {
	values := make([]string, 0, len(signedFields))
	for _, field := range signedFields {
		key := field
		if field == "order.id" {
			key = "order"
		}
		values = append(values, query.Get(key))
	}
	return values
}

func transactionValues(body []byte) []string {
	values := make([]string, 0, len(signedFields))
	for _, field := range signedFields {
		values = append(values, gjson.GetBytes(body, "obj."+field).String())
	}
	return values
}

// VerifyQuery checks the hmac parameter of the customer redirect callback.
func VerifyQuery(secret string, query url.Values) error {
	received := query.Get("hmac")
	if received == "" {
		return ErrMissingSignature
	}
	if !matches(secret, queryValues(query), received) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyTransaction checks the signature of a processed-transaction webhook body.
func VerifyTransaction(secret string, body []byte, received string) error {
	if received == "" {
		return ErrMissingSignature
	}
	if !gjson.ValidBytes(body) || !gjson.GetBytes(body, "obj").IsObject() {
		return ErrMalformedPayload
	}
	if !matches(secret, transactionValues(body), received) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseQuery extracts the transaction outcome from a verified redirect callback.
func ParseQuery(query url.Values) (Result, error) {
	amount, err := strconv.ParseInt(query.Get("amount_cents"), 10, 64)
	if err != nil {
		return Result{}, ErrMalformedPayload
	}
	result := Result{
		TransactionID:   query.Get("id"),
		PaymobOrderID:   query.Get("order"),
		MerchantOrderID: query.Get("merchant_order_id"),
		AmountCents:     amount,
		Success:         query.Get("success") == "true",
		Pending:         query.Get("pending") == "true",
	}
	if result.PaymobOrderID == "" {
		return Result{}, ErrMalformedPayload
	}
	return result, nil
}

// ParseTransaction extracts the transaction outcome from a verified webhook body.
func ParseTransaction(body []byte) (Result, error) {
	obj := gjson.GetBytes(body, "obj")
	if !obj.IsObject() {
		return Result{}, ErrMalformedPayload
	}
	result := Result{
		TransactionID:   obj.Get("id").String(),
		PaymobOrderID:   obj.Get("order.id").String(),
		MerchantOrderID: obj.Get("order.merchant_order_id").String(),
		AmountCents:     obj.Get("amount_cents").Int(),
		Success:         obj.Get("success").Bool(),
		Pending:         obj.Get("pending").Bool(),
	}
	if result.PaymobOrderID == "" {
		return Result{}, ErrMalformedPayload
	}
	return result, nil
}
