package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"io"
	"log"
	"net/http"
	"net/url"
)

// Simulates the payment gateway's callback: signs order|payment with the
// key secret and posts the three parameters to the shim's verify endpoint.
func main() {
	target := flag.String("target", "http://localhost:8080/api/payment/verify", "verify endpoint")
	orderID := flag.String("order", "", "gateway order id")
	paymentID := flag.String("payment", "", "gateway payment id")
	secret := flag.String("secret", "", "gateway key secret")
	flag.Parse()

	if *orderID == "" || *paymentID == "" || *secret == "" {
		log.Fatal("order, payment and secret are required")
	}

	mac := hmac.New(sha256.New, []byte(*secret))
	mac.Write([]byte(*orderID + "|" + *paymentID))
	signature := hex.EncodeToString(mac.Sum(nil))

	form := url.Values{
		"razorpay_order_id":   {*orderID},
		"razorpay_payment_id": {*paymentID},
		"razorpay_signature":  {signature},
	}

	resp, err := http.PostForm(*target, form)
	if err != nil {
		log.Fatalf("Failed to post callback: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Error reading response body: %v", err)
	}

	log.Printf("Status: %s", resp.Status)
	log.Printf("Body: %s", body)
}
