package controllers

import (
	"net/http"
	"time"

	"pos/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SalesController struct {
	transactions TransactionStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewSalesController(transactions TransactionStore, logger *zap.Logger) *SalesController {
	return &SalesController{transactions: transactions, logger: logger, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TodaySales lists the calling teller's transactions since midnight.
func (s *SalesController) TodaySales(c *gin.Context) {
	tellerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	txs, err := s.transactions.ListByTellerSince(ctx, tellerID, startOfDay(s.now()))
	if err != nil {
		s.logger.Error("today sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromFloat(tx.TotalAmount))
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Fetch success",
		"todaySales":        total.StringFixed(2),
		"todayTransactions": len(txs),
		"data":              txs,
	})
}

// Reports summarizes sales per teller for the day, the last 7 and 30
// days, and all time.
func (s *SalesController) Reports(c *gin.Context) {
	today := startOfDay(s.now())
	periods := []struct {
		key   string
		since time.Time
	}{
		{"daily", today},
		{"weekly", today.AddDate(0, 0, -7)},
		{"monthly", today.AddDate(0, 0, -30)},
		{"allTime", time.Time{}},
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	report := gin.H{}
	for _, p := range periods {
		rows, err := s.transactions.SalesByTeller(ctx, p.since)
		if err != nil {
			s.logger.Error("sales report", zap.String("period", p.key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		report[p.key] = gin.H{"total": sumSales(rows), "tellers": rows}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": report})
}

func sumSales(rows []models.TellerSales) string {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.TotalSales))
	}
	return total.StringFixed(2)
}
