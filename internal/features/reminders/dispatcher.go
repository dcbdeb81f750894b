package reminders

import (
	"context"
)

// Transport delivers one message over WhatsApp. Satisfied by
// callmebot.Client; tests substitute a fake.
type Transport interface {
	SendWhatsApp(ctx context.Context, phone, message, apiKey string) (string, error)
}

// Dispatcher formats a reminder and picks the delivery channel based on
// the owner's preferences. WhatsApp is the only channel wired in; a
// WhatsApp failure is terminal for that task and cycle.
type Dispatcher struct {
	transport Transport
}

func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

// Dispatch attempts delivery for one reminder. When the owner's WhatsApp
// settings are disabled or incomplete it fails fast without any outbound
// call.
func (d *Dispatcher) Dispatch(ctx context.Context, rem Reminder) DispatchResult {
	prefs := rem.Owner.Notifications

	phone := prefs.WhatsAppPhone
	if phone == "" {
		phone = rem.Owner.Phone
	}

	if !prefs.WhatsAppEnabled || phone == "" || prefs.CallMeBotKey == "" {
		return DispatchResult{
			Success:     false,
			ServiceUsed: ServiceNone,
			Error:       "whatsapp notifications not configured",
		}
	}

	message := FormatMessage(rem)

	if _, err := d.transport.SendWhatsApp(ctx, phone, message, prefs.CallMeBotKey); err != nil {
		return DispatchResult{
			Success:     false,
			ServiceUsed: ServiceWhatsApp,
			Error:       err.Error(),
		}
	}

	return DispatchResult{Success: true, ServiceUsed: ServiceWhatsApp}
}
