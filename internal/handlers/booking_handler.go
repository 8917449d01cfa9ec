package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/dto"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
	bookinguc "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	repo domain.Repository

	reserve  *bookinguc.Reserve
	checkout *bookinguc.StartCheckout
	confirm  *bookinguc.ConfirmSettlement
	cancel   *bookinguc.CancelBooking
	complete *bookinguc.CompleteBooking
}

func NewBookingHandler(
	repo domain.Repository,
	reserve *bookinguc.Reserve,
	checkout *bookinguc.StartCheckout,
	confirm *bookinguc.ConfirmSettlement,
	cancel *bookinguc.CancelBooking,
	complete *bookinguc.CompleteBooking,
) *BookingHandler {
	return &BookingHandler{
		repo:     repo,
		reserve:  reserve,
		checkout: checkout,
		confirm:  confirm,
		cancel:   cancel,
		complete: complete,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
}

// ======================================================
// RESERVA (cliente)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.reserve.Execute(c.Request.Context(), bookinguc.ReserveInput{
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		Notes:          req.Notes,
	})
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_booking", "Erro ao criar reserva.")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// CHECKOUT (cliente)
// ======================================================

func (h *BookingHandler) StartCheckout(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	handle, err := h.checkout.Execute(c.Request.Context(), uint(id), clientID)
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_start_checkout", "Erro ao iniciar pagamento.")
		return
	}

	c.JSON(http.StatusOK, handle)
}

// ======================================================
// RETORNO DO CHECKOUT (sem autenticação — redirect do processador)
// ======================================================

func (h *BookingHandler) ConfirmReturn(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Query("booking_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Identificador inválido.")
		return
	}

	tx := c.Query("tx")
	sessionID := c.Query("session_id")

	b, err := h.confirm.Execute(c.Request.Context(), uint(bookingID), tx, sessionID)
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_confirm_booking", "Erro ao confirmar reserva.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id": b.ID,
		"status":     b.Status,
	})
}

// CancelledReturn atende o redirect de desistência: nada muda na reserva,
// ela continua pendente até pagar ou expirar.
func (h *BookingHandler) CancelledReturn(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Query("booking_id"), 10, 32)

	c.JSON(http.StatusOK, gin.H{
		"booking_id": bookingID,
		"status":     "pending",
		"message":    "Pagamento não concluído. A reserva segue aguardando pagamento.",
	})
}

// ======================================================
// AGENDA (profissional)
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	pro, err := h.repo.GetProfessionalByID(c.Request.Context(), professionalID)
	if err != nil {
		httperr.Internal(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	date, err := parseDateInPro(pro, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	bookings, err := h.repo.ListBookingsForPeriod(c.Request.Context(), professionalID, start, end)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar reservas.")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingList(bookings))
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	pro, err := h.repo.GetProfessionalByID(c.Request.Context(), professionalID)
	if err != nil {
		httperr.Internal(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	loc := timezone.Location(pro.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	bookings, err := h.repo.ListBookingsForPeriod(c.Request.Context(), professionalID, start, end)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar reservas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"bookings": dto.ToBookingList(bookings),
	})
}

// ======================================================
// AÇÕES DO PROFISSIONAL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), professionalID, uint(id))
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_booking", "Erro ao cancelar reserva.")
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), professionalID, uint(id))
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_complete_booking", "Erro ao concluir reserva.")
		return
	}

	c.JSON(http.StatusOK, b)
}
