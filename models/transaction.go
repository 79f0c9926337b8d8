package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

var PaymentMethods = []string{PaymentCash, PaymentCard}

type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TellerID      primitive.ObjectID `bson:"tellerId" json:"tellerId"`
	TellerName    string             `bson:"tellerName" json:"tellerName"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Items         []TransactionItem  `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// TransactionItem keeps the unit price at the time of sale.
type TransactionItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// TellerSales is one row of a sales report.
type TellerSales struct {
	TellerID         primitive.ObjectID `bson:"_id" json:"tellerId"`
	TellerName       string             `bson:"tellerName" json:"tellerName"`
	TotalSales       float64            `bson:"totalSales" json:"totalSales"`
	TransactionCount int                `bson:"transactionCount" json:"transactionCount"`
}
