package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"gmart/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection; keep a single one so every
	// request sees the same schema and rows.
	db.SetMaxOpenConns(1)
	if err := prepare(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(db *sqlx.DB) error {
	if err := db.Ping(); err != nil {
		return err
	}
	if err := ensureSchema(db); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	// Seed baseline data if DB is empty (categories/products)
	if err := seedIfEmpty(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	// Reviews depend on seeded users and products
	if err := seedReviews(db); err != nil {
		return fmt.Errorf("seed reviews: %w", err)
	}
	return nil
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image_url TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  image_url TEXT,
  rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_rating   ON products(rating);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- value of the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  last_seen  DATETIME
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Cart line items, one row per (user, product)
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  delivery_address TEXT NOT NULL,
  customer_name TEXT,
  customer_email TEXT,
  customer_phone TEXT,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Reviews, at most one per (user, product)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT,
  created_at DATETIME NOT NULL,
  UNIQUE (user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

-- Product aggregates are owned by the store, not by the application.
CREATE TRIGGER IF NOT EXISTS trg_reviews_after_insert AFTER INSERT ON reviews BEGIN
  UPDATE products SET
    rating = (SELECT ROUND(AVG(rating), 1) FROM reviews WHERE product_id = NEW.product_id),
    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = NEW.product_id)
  WHERE id = NEW.product_id;
END;
CREATE TRIGGER IF NOT EXISTS trg_reviews_after_update AFTER UPDATE ON reviews BEGIN
  UPDATE products SET
    rating = (SELECT ROUND(AVG(rating), 1) FROM reviews WHERE product_id = NEW.product_id),
    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = NEW.product_id)
  WHERE id = NEW.product_id;
END;
CREATE TRIGGER IF NOT EXISTS trg_reviews_after_delete AFTER DELETE ON reviews BEGIN
  UPDATE products SET
    rating = COALESCE((SELECT ROUND(AVG(rating), 1) FROM reviews WHERE product_id = OLD.product_id), 0),
    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = OLD.product_id)
  WHERE id = OLD.product_id;
END;

-- Profiles, created lazily on first visit
CREATE TABLE IF NOT EXISTS profiles(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  full_name TEXT,
  email TEXT,
  phone TEXT,
  address TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO categories(id,name,description,image_url) VALUES
	  ('fruits','Fresh Fruits','Seasonal fruit picked at peak ripeness','/static/img/categories/fruits.jpg'),
	  ('vegetables','Vegetables','Crisp greens, roots and everyday veg','/static/img/categories/vegetables.jpg'),
	  ('dairy','Dairy & Eggs','Milk, cheese, yoghurt and free-range eggs','/static/img/categories/dairy.jpg'),
	  ('bakery','Bakery','Bread and pastries baked every morning','/static/img/categories/bakery.jpg'),
	  ('pantry','Pantry','Rice, pasta, oils and staples','/static/img/categories/pantry.jpg'),
	  ('beverages','Beverages','Juices, teas and coffee','/static/img/categories/beverages.jpg')`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO products(id,category_id,name,description,price,stock,image_url) VALUES
	  ('banana-001','fruits','Bananas (1 kg)','Ripe Cavendish bananas',1.99,120,'/static/img/products/banana-001.jpg'),
	  ('apple-001','fruits','Gala Apples (1 kg)','Sweet and crunchy',3.49,80,'/static/img/products/apple-001.jpg'),
	  ('mango-001','fruits','Alphonso Mango','Single premium mango',2.75,3,'/static/img/products/mango-001.jpg'),
	  ('spinach-001','vegetables','Baby Spinach (200 g)','Washed and ready to eat',2.49,40,'/static/img/products/spinach-001.jpg'),
	  ('carrot-001','vegetables','Carrots (1 kg)','Locally grown',1.29,60,'/static/img/products/carrot-001.jpg'),
	  ('milk-001','dairy','Whole Milk (2 L)','Pasteurised whole milk',4.50,25,'/static/img/products/milk-001.jpg'),
	  ('eggs-001','dairy','Free-Range Eggs (12)','Large brown eggs',5.25,0,'/static/img/products/eggs-001.jpg'),
	  ('bread-001','bakery','Sourdough Loaf','Slow-fermented sourdough',6.00,15,'/static/img/products/bread-001.jpg'),
	  ('rice-001','pantry','Basmati Rice (5 kg)','Aged long-grain basmati',12.99,30,'/static/img/products/rice-001.jpg'),
	  ('oil-001','pantry','Olive Oil (1 L)','Extra virgin, cold pressed',9.80,18,'/static/img/products/oil-001.jpg'),
	  ('juice-001','beverages','Orange Juice (1 L)','Not from concentrate',3.99,22,'/static/img/products/juice-001.jpg'),
	  ('tea-001','beverages','Green Tea (50 bags)','Japanese sencha',4.25,35,'/static/img/products/tea-001.jpg')`); err != nil {
		return err
	}

	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	users := []u{
		{ID: "u-alice", Email: "alice@gmart.test", Name: "Alice", Role: domain.RoleUser},
		{ID: "u-bob", Email: "bob@gmart.test", Name: "Bob", Role: domain.RoleUser},
		{ID: "u-admin", Email: "admin@gmart.test", Name: "Admin", Role: domain.RoleAdmin},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		x.Hash = string(hash)
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedReviews gives a few products a rating so the home page has featured
// items. Idempotent through the (user, product) uniqueness.
func seedReviews(db *sqlx.DB) error {
	_, err := db.Exec(`
		INSERT INTO reviews(id,user_id,product_id,rating,comment,created_at) VALUES
		  ('seed-r1','u-alice','banana-001',5,'Always perfectly ripe.',CURRENT_TIMESTAMP),
		  ('seed-r2','u-bob','banana-001',4,'Good value.',CURRENT_TIMESTAMP),
		  ('seed-r3','u-alice','bread-001',5,'Best sourdough in town.',CURRENT_TIMESTAMP),
		  ('seed-r4','u-bob','milk-001',4,'Fresh and creamy.',CURRENT_TIMESTAMP),
		  ('seed-r5','u-alice','oil-001',4,'Great for salads.',CURRENT_TIMESTAMP),
		  ('seed-r6','u-bob','carrot-001',3,'Fine.',CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, product_id) DO NOTHING
	`)
	return err
}
