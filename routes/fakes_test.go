package routes

import (
	"context"
	"sync"
	"time"

	"pos/database"
	"pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProducts struct {
	mu       sync.Mutex
	products []models.Product
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product{}, f.products...), nil
}

func (f *fakeProducts) ListAvailable(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if p.Status == models.StatusAvailable {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, database.ErrNotFound
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		p := &f.products[i]
		if p.ID != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			p.Name = v
		}
		if v, ok := fields["price"].(float64); ok {
			p.Price = v
		}
		if v, ok := fields["status"].(string); ok {
			p.Status = v
		}
		return *p, nil
	}
	return models.Product{}, database.ErrNotFound
}

type fakeTransactions struct {
	mu  sync.Mutex
	txs []models.Transaction
}

func (f *fakeTransactions) Create(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakeTransactions) ListByTellerSince(_ context.Context, tellerID primitive.ObjectID, since time.Time) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range f.txs {
		if tx.TellerID == tellerID && !tx.CreatedAt.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactions) SalesByTeller(_ context.Context, since time.Time) ([]models.TellerSales, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byTeller := map[primitive.ObjectID]*models.TellerSales{}
	out := []models.TellerSales{}
	var order []primitive.ObjectID
	for _, tx := range f.txs {
		if tx.CreatedAt.Before(since) {
			continue
		}
		row, ok := byTeller[tx.TellerID]
		if !ok {
			row = &models.TellerSales{TellerID: tx.TellerID, TellerName: tx.TellerName}
			byTeller[tx.TellerID] = row
			order = append(order, tx.TellerID)
		}
		row.TotalSales += tx.TotalAmount
		row.TransactionCount++
	}
	for _, id := range order {
		out = append(out, *byTeller[id])
	}
	return out, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		u := &f.users[i]
		if u.ID != id {
			continue
		}
		if v, ok := fields["role"].(string); ok {
			u.Role = v
		}
		if v, ok := fields["isActive"].(bool); ok {
			u.IsActive = v
		}
		return *u, nil
	}
	return models.User{}, database.ErrNotFound
}

type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func (f *fakeBlacklist) Add(_ context.Context, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = exp
	return nil
}

func (f *fakeBlacklist) Contains(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok, nil
}
