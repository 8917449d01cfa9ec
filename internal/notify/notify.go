package notify

import (
	"log"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

// Notifier entrega a mensagem de fato (e-mail, push, webhook...).
type Notifier interface {
	Send(msg Message) error
}

type Message struct {
	Kind           string
	ProfessionalID uint
	ClientID       uint
	BookingID      uint
	StartTime      string
}

// LogNotifier é a entrega padrão enquanto nenhum canal externo está
// configurado: só escreve no log do processo.
type LogNotifier struct{}

func (LogNotifier) Send(msg Message) error {
	log.Printf("notify [%s] booking=%d professional=%d client=%d start=%s",
		msg.Kind, msg.BookingID, msg.ProfessionalID, msg.ClientID, msg.StartTime)
	return nil
}

// Dispatcher enfileira notificações fora do caminho da requisição,
// no mesmo modelo do audit: worker único, fila com buffer, descarte
// quando cheia.
type Dispatcher struct {
	notifier Notifier
	queue    chan Message
}

func NewDispatcher(n Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: n,
		queue:    make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if err := d.notifier.Send(msg); err != nil {
			log.Println("notify error:", err)
		}
	}
}

func (d *Dispatcher) dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Println("notify queue full, dropping message")
	}
}

func (d *Dispatcher) BookingConfirmed(b *models.Booking) {
	d.dispatch(Message{
		Kind:           "booking_confirmed",
		ProfessionalID: b.ProfessionalID,
		ClientID:       b.ClientID,
		BookingID:      b.ID,
		StartTime:      b.StartTime.Format("2006-01-02 15:04"),
	})
}

func (d *Dispatcher) BookingCancelled(b *models.Booking) {
	d.dispatch(Message{
		Kind:           "booking_cancelled",
		ProfessionalID: b.ProfessionalID,
		ClientID:       b.ClientID,
		BookingID:      b.ID,
		StartTime:      b.StartTime.Format("2006-01-02 15:04"),
	})
}
