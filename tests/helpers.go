package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"orders/entities"

	_ "github.com/lib/pq"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080"

type postOrderRequest struct {
	Username string               `json:"username"`
	Items    []entities.OrderItem `json:"items"`
}

type postOrderResponse struct {
	OrderID string `json:"order_id"`
}

type errorResponse struct {
	Status              string `json:"status"`
	Message             string `json:"message"`
	UnavailableProducts []struct {
		ProductID int64  `json:"product_id"`
		Name      string `json:"name"`
		Requested int32  `json:"requested"`
		Available int32  `json:"available"`
	} `json:"unavailable_products"`
}

func sendOrder(t *testing.T, req postOrderRequest) *http.Response {
	t.Helper()

	payload, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(
		http.MethodPost,
		baseURL+"/orders",
		bytes.NewBuffer(payload),
	)
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
