package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/julienschmidt/httprouter"
	"io"
	"net"
	"net/http"
	"paygate/config"
	"paygate/entity"
	"paygate/services"
)

const (
	prepayOrder   = "/prepay"
	paymentNotify = "/notify"

	maxNotifyBody = 1 << 20
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logger     services.LogHandler
	codec      *Codec
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf:  conf,
		codec: NewCodec(),
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(prepayOrder, s.prepay)
	router.POST(paymentNotify, s.paymentNotify)
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) prepay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] prepay: read request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var order entity.PrepayOrder
	if err = json.Unmarshal(body, &order); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] prepay: decode request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err = order.Validate(); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] prepay: invalid order: %v", reqID, err))
		s.writeJson(w, http.StatusBadRequest, map[string]string{"code": "FAIL", "message": err.Error()})
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] processing request: prepay order %s, amount %d", reqID, order.OutTradeNo, order.Amount))
	params, err := s.payments.Prepay(ctx, &order)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] prepay order %s", reqID, order.OutTradeNo), err)
		s.writeJson(w, prepayStatus(err), map[string]string{"code": "FAIL", "message": publicMessage(err)})
		return
	}
	s.writeJson(w, http.StatusOK, params)
}

func (s *Server) paymentNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotifyBody))
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: get body", reqID), err)
		s.notifyReply(w, http.StatusBadRequest, err)
		return
	}

	_, err = s.payments.Notify(ctx, body, entity.NotifyHeadersOf(r.Header))
	if err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payment notify rejected: %v", reqID, err))
		s.notifyReply(w, notifyStatus(err), err)
		return
	}
	s.logger.Info(fmt.Sprintf("[%s] payment notify accepted", reqID))
	s.notifyReply(w, http.StatusNoContent, nil)
}

// notifyReply answers in the format the processor expects for the API generation.
func (s *Server) notifyReply(w http.ResponseWriter, status int, err error) {
	if s.payments.ApiVersion() == config.ApiV2 {
		reply := entity.Fields{"return_code": resultSuccess, "return_msg": "OK"}
		if err != nil {
			reply = entity.Fields{"return_code": "FAIL", "return_msg": publicMessage(err)}
		}
		data, _ := s.codec.EncodeXml(reply)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	if err == nil {
		w.WriteHeader(status)
		return
	}
	s.writeJson(w, status, map[string]string{"code": "FAIL", "message": publicMessage(err)})
}

func (s *Server) writeJson(w http.ResponseWriter, status int, value any) {
	data, err := s.codec.EncodeJson(value)
	if err != nil {
		s.logger.Error("encode response", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func notifyStatus(err error) int {
	switch {
	case errors.Is(err, ErrSignature), errors.Is(err, ErrCertificateMismatch), errors.Is(err, ErrExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDecryption), errors.Is(err, ErrProtocol):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func prepayStatus(err error) int {
	switch {
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, ErrProtocol), errors.Is(err, ErrMissingPrepayId):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage names the failure kind without details from the request.
func publicMessage(err error) string {
	var business *BusinessError
	var missing *MissingFieldError
	switch {
	case errors.As(err, &business):
		return business.Error()
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, ErrSignature):
		return ErrSignature.Error()
	case errors.Is(err, ErrCertificateMismatch):
		return ErrCertificateMismatch.Error()
	case errors.Is(err, ErrExpired):
		return ErrExpired.Error()
	case errors.Is(err, ErrDecryption):
		return ErrDecryption.Error()
	case errors.Is(err, ErrMissingPrepayId):
		return ErrMissingPrepayId.Error()
	case errors.Is(err, ErrProtocol):
		return ErrProtocol.Error()
	case errors.Is(err, ErrTransport):
		return ErrTransport.Error()
	default:
		return "internal error"
	}
}
