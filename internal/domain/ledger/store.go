package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"libreta/internal/domain/message"
	"libreta/internal/money"
	"libreta/internal/notify"
)

// Mode selects the active persistence backend.
type Mode int

const (
	// ModeLocal persists to the local blob store. Active whenever no
	// identity is present.
	ModeLocal Mode = iota
	// ModeCloud persists to the per-user remote document and mirrors
	// remote updates into memory through a live subscription.
	ModeCloud
)

func (m Mode) String() string {
	if m == ModeCloud {
		return "cloud"
	}
	return "local"
}

// Store is the single source of truth for the client ledger and the
// product catalog. Mutations update in-memory state synchronously and
// hand the persistence write to a per-store queue goroutine, so callers
// see their change immediately and write order matches mutation order.
// A persistence failure is logged, never rolled back: the in-memory
// state is the optimistic truth.
type Store struct {
	local    BlobStore
	remote   DocumentStore
	sender   Sender
	dispatch Dispatcher
	log      zerolog.Logger
	currency string

	mu              sync.RWMutex
	clients         []Client
	products        []Product
	saleTemplate    string
	paymentTemplate string
	businessName    string
	mode            Mode
	userID          string
	migrated        bool

	stopSub func()

	writes    chan func(context.Context)
	writeDone chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Options configures a Store. Local is required; the rest may be nil,
// which disables the corresponding behavior (no cloud mode, no
// notifications).
type Options struct {
	Local        BlobStore
	Remote       DocumentStore
	Sender       Sender
	Dispatcher   Dispatcher
	Logger       zerolog.Logger
	Currency     string
	BusinessName string
}

// NewStore creates a store in local mode with empty collections. Call
// Load (or OnIdentityChanged) to bring in persisted state.
func NewStore(opts Options) *Store {
	if opts.Local == nil {
		panic("ledger: Options.Local is required")
	}
	currency := opts.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		local:           opts.Local,
		remote:          opts.Remote,
		sender:          opts.Sender,
		dispatch:        opts.Dispatcher,
		log:             opts.Logger,
		currency:        currency,
		clients:         []Client{},
		products:        []Product{},
		saleTemplate:    message.DefaultSaleTemplate,
		paymentTemplate: message.DefaultPaymentTemplate,
		businessName:    opts.BusinessName,
		mode:            ModeLocal,
		writes:          make(chan func(context.Context), 64),
		writeDone:       make(chan struct{}),
		ctx:             ctx,
		cancel:          cancel,
	}

	go s.persistLoop()
	return s
}

// persistLoop drains the write queue one request at a time, so two
// writes issued in rapid succession reach the backend in order.
func (s *Store) persistLoop() {
	defer close(s.writeDone)
	for fn := range s.writes {
		fn(s.ctx)
	}
}

func (s *Store) enqueue(fn func(context.Context)) {
	select {
	case s.writes <- fn:
	case <-s.ctx.Done():
	}
}

// Flush blocks until every persistence write queued so far has been
// attempted. Used by the CLI before exit and by tests.
func (s *Store) Flush() {
	done := make(chan struct{})
	s.enqueue(func(context.Context) { close(done) })
	select {
	case <-done:
	case <-s.ctx.Done():
	}
}

// Close terminates the subscription, drains pending writes and releases
// the store. The store must not be used afterwards.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.stopSubscription()
		close(s.writes)
		select {
		case <-s.writeDone:
		case <-time.After(10 * time.Second):
		}
		s.cancel()
	})
}

// --- mode selection ---

// OnIdentityChanged re-runs mode selection. An empty userID means signed
// out: the active subscription is terminated first so a stale cloud
// callback cannot overwrite local state, then reads and writes revert to
// the local blobs. A non-empty userID switches to cloud mode, subscribes
// to the user document and blocks until the first snapshot (or the
// one-time migration it triggers) has been applied.
func (s *Store) OnIdentityChanged(ctx context.Context, userID string) error {
	s.stopSubscription()

	if userID == "" {
		return s.enterLocal(ctx)
	}
	return s.enterCloud(ctx, userID)
}

// Load brings in persisted state for the current (local) mode. It is a
// convenience alias for OnIdentityChanged with no identity.
func (s *Store) Load(ctx context.Context) error {
	return s.OnIdentityChanged(ctx, "")
}

func (s *Store) enterLocal(ctx context.Context) error {
	clients, err := s.loadLocalClients(ctx)
	if err != nil {
		return err
	}
	products, err := s.loadLocalProducts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mode = ModeLocal
	s.userID = ""
	s.migrated = false
	s.clients = clients
	s.products = products
	s.mu.Unlock()

	s.log.Info().Int("clients", len(clients)).Int("products", len(products)).Msg("ledger loaded from local store")
	return nil
}

func (s *Store) enterCloud(ctx context.Context, userID string) error {
	if s.remote == nil {
		return errors.New("remote document store is not configured")
	}

	s.mu.Lock()
	s.mode = ModeCloud
	s.userID = userID
	s.migrated = false
	s.mu.Unlock()

	ready := make(chan struct{})
	var once sync.Once

	stop, err := s.remote.Subscribe(s.ctx, userID, func(doc *Document) {
		if doc == nil {
			// First cloud load with no existing remote document.
			s.migrate(userID)
		} else {
			s.applyRemote(doc)
		}
		once.Do(func() { close(ready) })
	})
	if err != nil {
		s.mu.Lock()
		s.mode = ModeLocal
		s.userID = ""
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.stopSub = stop
	s.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) stopSubscription() {
	s.mu.Lock()
	stop := s.stopSub
	s.stopSub = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// migrate copies local data into a newly created remote document, or
// initializes an empty one. Runs at most once per sign-in; the final
// existence check keeps a retry (or a racing login from another device)
// from overwriting a document that appeared in the meantime.
func (s *Store) migrate(userID string) {
	s.mu.Lock()
	if s.migrated {
		s.mu.Unlock()
		return
	}
	s.migrated = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	existing, err := s.remote.Read(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("migration existence check failed")
		return
	}
	if existing != nil {
		s.applyRemote(existing)
		return
	}

	clients, err := s.loadLocalClients(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("migration: could not read local clients")
		clients = []Client{}
	}
	products, err := s.loadLocalProducts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("migration: could not read local products")
		products = []Product{}
	}

	doc := &Document{
		Clients:   sanitizeClients(clients),
		Products:  sanitizeProducts(products),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.remote.Write(ctx, userID, doc); err != nil {
		s.log.Error().Err(err).Msg("migration write failed")
		return
	}

	s.mu.Lock()
	s.clients = doc.Clients
	s.products = doc.Products
	s.mu.Unlock()

	s.log.Info().Int("clients", len(doc.Clients)).Int("products", len(doc.Products)).Msg("local data migrated to cloud")
}

// applyRemote replaces in-memory state wholesale with a remote snapshot,
// echoes of our own writes included. Balances are recomputed so the
// ledger invariant holds no matter what the document contains.
func (s *Store) applyRemote(doc *Document) {
	clients := copyClients(doc.Clients)
	for i := range clients {
		clients[i].TotalBalance = Balance(clients[i].Transactions)
	}
	products := copyProducts(doc.Products)

	s.mu.Lock()
	s.clients = clients
	s.products = products
	if doc.WhatsAppSaleTemplate != "" {
		s.saleTemplate = doc.WhatsAppSaleTemplate
	}
	if doc.WhatsAppPaymentTemplate != "" {
		s.paymentTemplate = doc.WhatsAppPaymentTemplate
	}
	s.mu.Unlock()
}

func (s *Store) loadLocalClients(ctx context.Context) ([]Client, error) {
	data, err := s.local.Get(ctx, BlobKeyClients)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []Client{}, nil
	}
	var col ClientCollection
	if err := json.Unmarshal(data, &col); err != nil {
		// Malformed blob: start empty rather than fail.
		s.log.Warn().Err(err).Msg("discarding malformed clients blob")
		return []Client{}, nil
	}
	clients := copyClients(col.Clients)
	for i := range clients {
		clients[i].TotalBalance = Balance(clients[i].Transactions)
	}
	return clients, nil
}

func (s *Store) loadLocalProducts(ctx context.Context) ([]Product, error) {
	data, err := s.local.Get(ctx, BlobKeyProducts)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []Product{}, nil
	}
	var col ProductCollection
	if err := json.Unmarshal(data, &col); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed products blob")
		return []Product{}, nil
	}
	return copyProducts(col.Products), nil
}

// --- persistence (write-through, full collection overwrite) ---

func (s *Store) persist(clients, products bool) {
	s.mu.RLock()
	mode := s.mode
	userID := s.userID
	snapClients := copyClients(s.clients)
	snapProducts := copyProducts(s.products)
	saleTmpl := s.saleTemplate
	paymentTmpl := s.paymentTemplate
	s.mu.RUnlock()

	if mode == ModeCloud {
		doc := &Document{
			Clients:                 sanitizeClients(snapClients),
			Products:                sanitizeProducts(snapProducts),
			WhatsAppSaleTemplate:    saleTmpl,
			WhatsAppPaymentTemplate: paymentTmpl,
			UpdatedAt:               time.Now().UTC().Format(time.RFC3339),
		}
		s.enqueue(func(ctx context.Context) {
			if err := s.remote.Write(ctx, userID, doc); err != nil {
				s.log.Error().Err(err).Msg("cloud write failed, keeping in-memory state")
			}
		})
		return
	}

	// Local mode writes each affected collection to its own blob key.
	if clients {
		s.enqueueBlob(BlobKeyClients, ClientCollection{Clients: snapClients})
	}
	if products {
		s.enqueueBlob(BlobKeyProducts, ProductCollection{Products: snapProducts})
	}
}

func (s *Store) enqueueBlob(key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("could not encode blob")
		return
	}
	s.enqueue(func(ctx context.Context) {
		if err := s.local.Set(ctx, key, data); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("local write failed, keeping in-memory state")
		}
	})
}

// --- accessors ---

// Clients returns a copy of the client collection, newest first.
func (s *Store) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyClients(s.clients)
}

// Products returns a copy of the catalog, newest first.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProducts(s.products)
}

// ClientByID returns a copy of one client, or false when the id is
// unknown.
func (s *Store) ClientByID(id string) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			return copyClients(s.clients[i : i+1])[0], true
		}
	}
	return Client{}, false
}

// Mode reports the active persistence mode.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Templates returns the current sale and payment templates.
func (s *Store) Templates() (sale, payment string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saleTemplate, s.paymentTemplate
}

// SetBusinessName sets the header used on generated notifications.
func (s *Store) SetBusinessName(name string) {
	s.mu.Lock()
	s.businessName = name
	s.mu.Unlock()
}

// --- client operations ---

// AddClient creates a client with a fresh id, an empty history and a
// zero balance, prepended to the collection.
func (s *Store) AddClient(p AddClientParams) Client {
	c := Client{
		ID:           newID(),
		Name:         p.Name,
		Phone:        copyString(p.Phone),
		Location:     copyString(p.Location),
		MemberSince:  time.Now().Format(memberSinceLayout),
		Transactions: []Transaction{},
		TotalBalance: 0,
	}

	s.mu.Lock()
	s.clients = append([]Client{c}, s.clients...)
	s.mu.Unlock()

	s.persist(true, false)
	return c
}

// UpdateClient patches a client in place; nil fields are left unchanged.
func (s *Store) UpdateClient(id string, p UpdateClientParams) error {
	s.mu.Lock()
	idx := s.clientIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrClientNotFound
	}
	c := &s.clients[idx]
	c.Name = p.Name
	if p.Phone != nil {
		c.Phone = copyString(p.Phone)
	}
	if p.Location != nil {
		c.Location = copyString(p.Location)
	}
	if p.Image != nil {
		c.Image = copyString(p.Image)
	}
	s.mu.Unlock()

	s.persist(true, false)
	return nil
}

// DeleteClient removes a client and, with it, every transaction it owns.
func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	idx := s.clientIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrClientNotFound
	}
	s.clients = append(s.clients[:idx], s.clients[idx+1:]...)
	s.mu.Unlock()

	s.persist(true, false)
	return nil
}

// ImportData wholesale-replaces the in-memory client collection when the
// input is well formed. It does not persist; the next mutation will.
func (s *Store) ImportData(col *ClientCollection) bool {
	if col == nil || col.Clients == nil {
		return false
	}
	clients := copyClients(col.Clients)
	for i := range clients {
		clients[i].TotalBalance = Balance(clients[i].Transactions)
	}

	s.mu.Lock()
	s.clients = clients
	s.mu.Unlock()
	return true
}

// Save queues a full persistence write of both collections. Mutations
// persist on their own; Save exists for callers of ImportData, which
// deliberately does not.
func (s *Store) Save() {
	s.persist(true, true)
}

// ClearAllData empties both collections and wipes the local blobs. Used
// for "reset" regardless of mode; the remote document is left alone.
func (s *Store) ClearAllData() {
	s.mu.Lock()
	s.clients = []Client{}
	s.products = []Product{}
	s.mu.Unlock()

	s.enqueueBlob(BlobKeyClients, ClientCollection{Clients: []Client{}})
	s.enqueueBlob(BlobKeyProducts, ProductCollection{Products: []Product{}})
}

// --- transaction operations ---

// AddTransaction prepends a transaction to the client's history and
// recomputes the balance. A sale with catalog items decrements the
// matching products' stock, floored at zero. When Notify is set and the
// client has a phone, the WhatsApp notification is built synchronously
// but dispatched through the deferred task queue so it cannot block or
// reorder the mutation.
func (s *Store) AddTransaction(clientID string, p AddTransactionParams) (Transaction, error) {
	tx := Transaction{
		ID:          newID(),
		Type:        p.Type,
		Amount:      clampAmount(p.Amount),
		Description: p.Description,
		Date:        time.Now().UTC().Format(time.RFC3339),
		Items:       p.Items,
	}

	s.mu.Lock()
	idx := s.clientIndex(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return Transaction{}, ErrClientNotFound
	}
	c := &s.clients[idx]
	c.Transactions = append([]Transaction{tx}, c.Transactions...)
	c.TotalBalance = Balance(c.Transactions)

	if p.Type == TypeSale {
		for _, item := range p.Items {
			if item.ProductID == "" {
				continue
			}
			for j := range s.products {
				if s.products[j].ID == item.ProductID {
					s.products[j].Stock = clampStock(s.products[j].Stock - item.Quantity)
				}
			}
		}
	}

	clientName := c.Name
	balance := c.TotalBalance
	var phone string
	if c.Phone != nil {
		phone = *c.Phone
	}
	saleTmpl := s.saleTemplate
	paymentTmpl := s.paymentTemplate
	business := s.businessName
	s.mu.Unlock()

	s.persist(true, true)

	if p.Notify && phone != "" {
		s.notifyTransaction(phone, clientName, balance, saleTmpl, paymentTmpl, business, p)
	}
	return tx, nil
}

// UpdateTransaction replaces amount and description of one transaction
// and recomputes the owning client's balance by a full fold, so edits
// that change the amount can never leave a stale total.
func (s *Store) UpdateTransaction(clientID, transactionID string, p UpdateTransactionParams) error {
	s.mu.Lock()
	idx := s.clientIndex(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrClientNotFound
	}
	c := &s.clients[idx]
	found := false
	for i := range c.Transactions {
		if c.Transactions[i].ID == transactionID {
			c.Transactions[i].Amount = clampAmount(p.Amount)
			c.Transactions[i].Description = p.Description
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrTransactionNotFound
	}
	c.TotalBalance = Balance(c.Transactions)
	s.mu.Unlock()

	s.persist(true, false)
	return nil
}

// DeleteTransaction removes one transaction and recomputes the balance.
// The resulting total may go negative when a historical sale is removed
// after payments were recorded against it; that is allowed, not clamped.
func (s *Store) DeleteTransaction(clientID, transactionID string) error {
	s.mu.Lock()
	idx := s.clientIndex(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrClientNotFound
	}
	c := &s.clients[idx]
	kept := c.Transactions[:0:0]
	found := false
	for _, t := range c.Transactions {
		if t.ID == transactionID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		s.mu.Unlock()
		return ErrTransactionNotFound
	}
	c.Transactions = kept
	c.TotalBalance = Balance(c.Transactions)
	s.mu.Unlock()

	s.persist(true, false)
	return nil
}

// UpdateTemplates replaces both notification templates and persists.
func (s *Store) UpdateTemplates(sale, payment string) {
	s.mu.Lock()
	s.saleTemplate = sale
	s.paymentTemplate = payment
	s.mu.Unlock()

	s.persist(true, true)
}

func (s *Store) notifyTransaction(phone, clientName string, balance float64, saleTmpl, paymentTmpl, business string, p AddTransactionParams) {
	if s.sender == nil || s.dispatch == nil {
		return
	}

	var text string
	if p.Type == TypeSale {
		items := make([]message.LineItem, len(p.Items))
		for i, it := range p.Items {
			items[i] = message.LineItem{Quantity: it.Quantity, Name: it.ProductName, UnitPrice: it.PriceAtSale}
		}
		text = message.Sale(message.SaleParams{
			ClientName:   clientName,
			Amount:       p.Amount,
			Description:  p.Description,
			Balance:      balance,
			Template:     saleTmpl,
			Items:        items,
			BusinessName: business,
			Currency:     s.currency,
		})
	} else {
		text = message.Payment(message.PaymentParams{
			ClientName:   clientName,
			Amount:       p.Amount,
			Description:  p.Description,
			Balance:      balance,
			Template:     paymentTmpl,
			BusinessName: business,
			Currency:     s.currency,
		})
	}

	task := notify.TaskFunc("whatsapp notification to "+phone, func(ctx context.Context) error {
		if !s.sender.Send(ctx, phone, text) {
			return errors.New("whatsapp dispatch reported failure")
		}
		return nil
	})
	if err := s.dispatch.Submit(task); err != nil {
		s.log.Warn().Err(err).Msg("notification not queued")
	}
}

// --- product operations ---

// AddProduct creates a catalog entry, clamping malformed numeric input
// and trimming names, prepended to the collection.
func (s *Store) AddProduct(p AddProductParams) Product {
	prod := Product{
		ID:          newID(),
		Name:        strings.TrimSpace(p.Name),
		Price:       clampMoney(p.Price),
		Stock:       clampStock(p.Stock),
		Description: strings.TrimSpace(p.Description),
		Category:    copyString(p.Category),
		Image:       copyString(p.Image),
	}

	s.mu.Lock()
	s.products = append([]Product{prod}, s.products...)
	s.mu.Unlock()

	s.persist(false, true)
	return prod
}

// UpdateProduct replaces a product's fields; a nil Image keeps the
// current one. Historical transaction items are snapshots and are not
// touched.
func (s *Store) UpdateProduct(id string, p UpdateProductParams) error {
	s.mu.Lock()
	idx := s.productIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	prod := &s.products[idx]
	prod.Name = strings.TrimSpace(p.Name)
	prod.Price = clampMoney(p.Price)
	prod.Stock = clampStock(p.Stock)
	prod.Description = strings.TrimSpace(p.Description)
	prod.Category = copyString(p.Category)
	if p.Image != nil {
		prod.Image = copyString(p.Image)
	}
	s.mu.Unlock()

	s.persist(false, true)
	return nil
}

// DeleteProduct removes a catalog entry. Item snapshots on historical
// transactions keep their name and price.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	idx := s.productIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	s.mu.Unlock()

	s.persist(false, true)
	return nil
}

// callers hold s.mu
func (s *Store) clientIndex(id string) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
