package payments

import (
	"bufio"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ScriptWidget checks that the gateway's checkout script is reachable and
// then asks an operator at a terminal for the payment id and signature the
// gateway showed them.
type ScriptWidget struct {
	scriptURL  string
	httpClient *http.Client
	in         *bufio.Reader
	out        io.Writer
}

func NewScriptWidget(scriptURL string, httpClient *http.Client, in io.Reader, out io.Writer) *ScriptWidget {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ScriptWidget{
		scriptURL:  scriptURL,
		httpClient: httpClient,
		in:         bufio.NewReader(in),
		out:        out,
	}
}

func (w *ScriptWidget) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.scriptURL, nil)
	if err != nil {
		return err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checkout script returned %s", resp.Status)
	}
	if n == 0 {
		return errors.New("checkout script is empty")
	}
	return nil
}

func (w *ScriptWidget) Open(ctx context.Context, order *Order, buyer Buyer) (*Authorization, error) {
	fmt.Fprintf(w.out, "Order %s: %s %s (key %s)\n", order.OrderID, order.MajorAmount().StringFixed(2), order.Currency, order.Key)
	fmt.Fprintf(w.out, "Paying as %s <%s>\n", buyer.Name, buyer.Email)

	paymentID, err := w.prompt(ctx, "Payment ID (empty to cancel): ")
	if err != nil {
		return nil, err
	}
	if paymentID == "" {
		return nil, ErrDismissed
	}
	signature, err := w.prompt(ctx, "Signature: ")
	if err != nil {
		return nil, err
	}
	if signature == "" {
		return nil, ErrDismissed
	}
	return &Authorization{OrderID: order.OrderID, PaymentID: paymentID, Signature: signature}, nil
}

func (w *ScriptWidget) prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(w.out, label)
	line, err := w.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", ErrDismissed
	case err != nil && !errors.Is(err, io.EOF):
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// SandboxWidget pays every order itself, signing it with the gateway's test
// key secret the same way the gateway does
type SandboxWidget struct {
	secret string
}

func NewSandboxWidget(secret string) *SandboxWidget {
	return &SandboxWidget{secret: secret}
}

func (w *SandboxWidget) Load(ctx context.Context) error {
	if w.secret == "" {
		return errors.New("sandbox key secret is not configured")
	}
	return nil
}

func (w *SandboxWidget) Open(ctx context.Context, order *Order, buyer Buyer) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	return &Authorization{
		OrderID:   order.OrderID,
		PaymentID: paymentID,
		Signature: Sign(w.secret, order.OrderID, paymentID),
	}, nil
}

// Sign computes the checkout signature: hex HMAC-SHA256 of "orderId|paymentId"
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
