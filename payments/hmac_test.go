package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "3F1A9C0D2B7E45A6"

// The concatenation Paymob documents for this transaction, in signing order.
const transactionConcat = "150000" + "2026-03-09T10:15:30.123456" + "EGP" + "false" + "false" +
	"192837465" + "4421" + "true" + "false" + "false" + "false" + "false" + "false" +
	"998877" + "1024" + "false" + "2346" + "MasterCard" + "card" + "true"

const transactionBody = `{
  "type": "TRANSACTION",
  "obj": {
    "id": 192837465,
    "pending": false,
    "amount_cents": 150000,
    "success": true,
    "is_auth": false,
    "is_capture": false,
    "is_standalone_payment": false,
    "is_voided": false,
    "is_refunded": false,
    "is_3d_secure": true,
    "integration_id": 4421,
    "has_parent_transaction": false,
    "order": {"id": 998877, "merchant_order_id": "42-7f3c"},
    "created_at": "2026-03-09T10:15:30.123456",
    "currency": "EGP",
    "source_data": {"pan": "2346", "type": "card", "sub_type": "MasterCard"},
    "error_occured": false,
    "owner": 1024
  }
}`

func referenceDigest(secret, message string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func callbackQuery() url.Values {
	q := url.Values{}
	q.Set("amount_cents", "150000")
	q.Set("created_at", "2026-03-09T10:15:30.123456")
	q.Set("currency", "EGP")
	q.Set("error_occured", "false")
	q.Set("has_parent_transaction", "false")
	q.Set("id", "192837465")
	q.Set("integration_id", "4421")
	q.Set("is_3d_secure", "true")
	q.Set("is_auth", "false")
	q.Set("is_capture", "false")
	q.Set("is_refunded", "false")
	q.Set("is_standalone_payment", "false")
	q.Set("is_voided", "false")
	q.Set("order", "998877")
	q.Set("owner", "1024")
	q.Set("pending", "false")
	q.Set("source_data.pan", "2346")
	q.Set("source_data.sub_type", "MasterCard")
	q.Set("source_data.type", "card")
	q.Set("success", "true")
	q.Set("merchant_order_id", "42-7f3c")
	return q
}

func TestSignMatchesReference(t *testing.T) {
	assert.Equal(t, referenceDigest("key", "The quick brown fox"), Sign("key", []string{"The quick ", "brown fox"}))
	assert.Len(t, Sign("key", nil), 128)
}

func TestVerifyQuery(t *testing.T) {
	q := callbackQuery()
	q.Set("hmac", referenceDigest(testSecret, transactionConcat))
	require.NoError(t, VerifyQuery(testSecret, q))

	upper := callbackQuery()
	upper.Set("hmac", strings.ToUpper(referenceDigest(testSecret, transactionConcat)))
	require.NoError(t, VerifyQuery(testSecret, upper))

	tampered := callbackQuery()
	tampered.Set("hmac", referenceDigest(testSecret, transactionConcat))
	tampered.Set("amount_cents", "100")
	assert.ErrorIs(t, VerifyQuery(testSecret, tampered), ErrInvalidSignature)

	assert.ErrorIs(t, VerifyQuery(testSecret, callbackQuery()), ErrMissingSignature)

	wrongKey := callbackQuery()
	wrongKey.Set("hmac", referenceDigest("other-secret", transactionConcat))
	assert.ErrorIs(t, VerifyQuery(testSecret, wrongKey), ErrInvalidSignature)
}

func TestVerifyTransaction(t *testing.T) {
	sig := referenceDigest(testSecret, transactionConcat)
	require.NoError(t, VerifyTransaction(testSecret, []byte(transactionBody), sig))

	assert.ErrorIs(t, VerifyTransaction(testSecret, []byte(transactionBody), ""), ErrMissingSignature)
	assert.ErrorIs(t, VerifyTransaction(testSecret, []byte(transactionBody), sig[:127]+"0"), ErrInvalidSignature)
	assert.ErrorIs(t, VerifyTransaction(testSecret, []byte(`{"type":"TRANSACTION"}`), sig), ErrMalformedPayload)
	assert.ErrorIs(t, VerifyTransaction(testSecret, []byte(`not json`), sig), ErrMalformedPayload)
}

func TestParseTransaction(t *testing.T) {
	result, err := ParseTransaction([]byte(transactionBody))
	require.NoError(t, err)
	assert.Equal(t, Result{
		TransactionID:   "192837465",
		PaymobOrderID:   "998877",
		MerchantOrderID: "42-7f3c",
		AmountCents:     150000,
		Success:         true,
		Pending:         false,
	}, result)

	_, err = ParseTransaction([]byte(`{"obj":{"id":1}}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseQuery(t *testing.T) {
	result, err := ParseQuery(callbackQuery())
	require.NoError(t, err)
	assert.Equal(t, "998877", result.PaymobOrderID)
	assert.Equal(t, int64(150000), result.AmountCents)
	assert.True(t, result.Success)
	assert.False(t, result.Pending)

	q := callbackQuery()
	q.Set("amount_cents", "many")
	_, err = ParseQuery(q)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
