package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
)

// PayHere status codes delivered in the notify callback.
const (
	PayHereStatusSuccess    = "2"
	PayHereStatusPending    = "0"
	PayHereStatusCanceled   = "-1"
	PayHereStatusFailed     = "-2"
	PayHereStatusChargeback = "-3"
)

// PayHereCheckout holds the form fields the client posts to the
// PayHere checkout page.
type PayHereCheckout struct {
	MerchantID string `json:"merchant_id"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	NotifyURL  string `json:"notify_url"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Currency   string `json:"currency"`
	Amount     string `json:"amount"`
	FirstName  string `json:"first_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Hash       string `json:"hash"`
}

func md5Upper(value string) string {
	sum := md5.Sum([]byte(value))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// FormatAmount renders minor currency units the way PayHere expects,
// e.g. 280050 -> "2800.50".
func FormatAmount(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// GenerateCheckoutHash computes the hash PayHere requires on the
// checkout form: md5(merchant_id + order_id + amount + currency +
// md5(secret)), all uppercased hex.
func GenerateCheckoutHash(merchantID, orderID, amount, currency, merchantSecret string) string {
	return md5Upper(merchantID + orderID + amount + currency + md5Upper(merchantSecret))
}

// VerifyNotification checks the md5sig of an asynchronous payment
// notification against the shared merchant secret.
func VerifyNotification(merchantID, orderID, payhereAmount, payhereCurrency, statusCode, md5sig, merchantSecret string) bool {
	local := md5Upper(merchantID + orderID + payhereAmount + payhereCurrency + statusCode + md5Upper(merchantSecret))
	return subtle.ConstantTimeCompare([]byte(local), []byte(strings.ToUpper(md5sig))) == 1
}

// BuildPayHereCheckout assembles the redirect payload for an order.
func BuildPayHereCheckout(orderID uint, amountCents int, fullName, email, phone, items string) (*PayHereCheckout, error) {
	merchantID := os.Getenv("PAYHERE_MERCHANT_ID")
	merchantSecret := os.Getenv("PAYHERE_MERCHANT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	frontendURL := os.Getenv("FRONTEND_URL")

	if merchantID == "" || merchantSecret == "" {
		return nil, fmt.Errorf("payhere merchant credentials are not set")
	}

	orderRef := fmt.Sprintf("%d", orderID)
	currency := os.Getenv("PAYHERE_CURRENCY")
	if currency == "" {
		currency = "LKR"
	}
	amount := FormatAmount(amountCents)

	return &PayHereCheckout{
		MerchantID: merchantID,
		ReturnURL:  frontendURL + "/checkout/success",
		CancelURL:  frontendURL + "/checkout/cancel",
		NotifyURL:  baseURL + "/api/payhere/notify",
		OrderID:    orderRef,
		Items:      items,
		Currency:   currency,
		Amount:     amount,
		FirstName:  fullName,
		Email:      email,
		Phone:      phone,
		Hash:       GenerateCheckoutHash(merchantID, orderRef, amount, currency, merchantSecret),
	}, nil
}

func payhereAPIBase() string {
	base := os.Getenv("PAYHERE_API_URL")
	if base == "" {
		base = "https://sandbox.payhere.lk"
	}
	return base
}

// GetPayHereAccessToken requests an OAuth token for the merchant
// retrieval API.
func GetPayHereAccessToken() (string, error) {
	appID := os.Getenv("PAYHERE_APP_ID")
	appSecret := os.Getenv("PAYHERE_APP_SECRET")
	if appID == "" || appSecret == "" {
		return "", fmt.Errorf("payhere app credentials are not set")
	}

	auth := base64.StdEncoding.EncodeToString([]byte(appID + ":" + appSecret))

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Basic "+auth).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post(payhereAPIBase() + "/merchant/v1/oauth/token")

	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("payhere token request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var response map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	token, ok := response["access_token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("access token not found in response")
	}
	return token, nil
}

// FetchPaymentDetails queries the PayHere retrieval API for the
// payments recorded against an order.
func FetchPaymentDetails(orderID string) (map[string]interface{}, error) {
	token, err := GetPayHereAccessToken()
	if err != nil {
		return nil, err
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Accept", "application/json").
		SetQueryParam("order_id", orderID).
		Get(payhereAPIBase() + "/merchant/v1/payment/search")

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payhere payment lookup failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var response map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	return response, nil
}
