package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chatstream/contract"
	"chatstream/domain"
	"chatstream/domain/event"
	cerrors "chatstream/errors"
)

type State string

const (
	StateUnbound State = "unbound"
	StateJoining State = "joining"
	StateBound   State = "bound"
	StateLeaving State = "leaving"
	StateClosed  State = "closed"
)

// Options tunes the per-chat event streams.
type Options struct {
	// StreamBuffer is the per-subscriber channel capacity.
	StreamBuffer int
	// ReplayDepth bounds how many past events a new subscriber receives
	// before going live.
	ReplayDepth int
}

func (o Options) withDefaults() Options {
	if o.StreamBuffer <= 0 {
		o.StreamBuffer = defaultStreamBuffer
	}
	if o.ReplayDepth <= 0 {
		o.ReplayDepth = defaultReplayDepth
	}
	return o
}

// Chat is the synchronization core for one chat: it reconciles backend
// change notifications into roster, metadata and sendable state, and
// translates chat intents into backend writes. All reconciliation for a
// chat runs on a single goroutine, so concurrent notifications are
// applied one at a time in backend-delivery order. Chats are fully
// independent of each other.
type Chat struct {
	id      string
	me      string
	adapter contract.BackendAdapter
	log     *slog.Logger

	mu            sync.Mutex
	state         State
	cancelStreams func()

	roster    *Roster
	metaState *MetaState

	messages    *Multiplexer[event.Message]
	typing      *Multiplexer[event.TypingState]
	receipts    *Multiplexer[event.DeliveryReceipt]
	userEvents  *Multiplexer[event.UserEvent]
	metaChanges *Multiplexer[domain.Meta]
	nameChanges *Multiplexer[string]
	imageURLs   *Multiplexer[string]
	customData  *Multiplexer[map[string]any]

	stateMu       sync.RWMutex
	typingStates  map[string]domain.TypingStateType
	receiptStates map[string]map[string]domain.DeliveryReceiptType

	ready chan struct{}
}

// NewChat builds an unbound chat for the given id and local user. Nothing
// touches the backend until Join is called.
func NewChat(id, me string, adapter contract.BackendAdapter, log *slog.Logger, opts Options) *Chat {
	opts = opts.withDefaults()
	return &Chat{
		id:            id,
		me:            me,
		adapter:       adapter,
		log:           log,
		state:         StateUnbound,
		roster:        NewRoster(),
		metaState:     NewMetaState(),
		messages:      NewMultiplexer[event.Message](log, opts.StreamBuffer, opts.ReplayDepth),
		typing:        NewMultiplexer[event.TypingState](log, opts.StreamBuffer, opts.ReplayDepth),
		receipts:      NewMultiplexer[event.DeliveryReceipt](log, opts.StreamBuffer, opts.ReplayDepth),
		userEvents:    NewMultiplexer[event.UserEvent](log, opts.StreamBuffer, opts.ReplayDepth),
		metaChanges:   NewMultiplexer[domain.Meta](log, opts.StreamBuffer, opts.ReplayDepth),
		nameChanges:   NewMultiplexer[string](log, opts.StreamBuffer, opts.ReplayDepth),
		imageURLs:     NewMultiplexer[string](log, opts.StreamBuffer, opts.ReplayDepth),
		customData:    NewMultiplexer[map[string]any](log, opts.StreamBuffer, opts.ReplayDepth),
		typingStates:  make(map[string]domain.TypingStateType),
		receiptStates: make(map[string]map[string]domain.DeliveryReceiptType),
		ready:         make(chan struct{}),
	}
}

func (c *Chat) ID() string {
	return c.id
}

func (c *Chat) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready is closed once the initial snapshots are loaded and all change
// streams are established.
func (c *Chat) Ready() <-chan struct{} {
	return c.ready
}

// Join loads the initial roster and metadata snapshots, establishes the
// change streams and moves the chat to the bound state. Only a bound chat
// accepts operations.
func (c *Chat) Join(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateUnbound:
		c.state = StateJoining
		c.mu.Unlock()
	case StateClosed:
		c.mu.Unlock()
		return fmt.Errorf("join: %w", cerrors.ErrClosedChat)
	default:
		c.mu.Unlock()
		return fmt.Errorf("join: %w", cerrors.ErrInvalidState)
	}

	if err := c.seed(ctx); err != nil {
		c.setState(StateUnbound)
		return err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	users, cancelUsers, err := c.adapter.SubscribeChanges(streamCtx, domain.ChatUsersPath(c.id))
	if err != nil {
		cancel()
		c.setState(StateUnbound)
		return fmt.Errorf("join: roster stream: %w: %v", cerrors.ErrTransport, err)
	}
	meta, cancelMeta, err := c.adapter.SubscribeChanges(streamCtx, domain.ChatMetaPath(c.id))
	if err != nil {
		cancelUsers()
		cancel()
		c.setState(StateUnbound)
		return fmt.Errorf("join: meta stream: %w: %v", cerrors.ErrTransport, err)
	}
	sendables, cancelSendables, err := c.adapter.SubscribeChanges(streamCtx, domain.ChatMessagesPath(c.id))
	if err != nil {
		cancelMeta()
		cancelUsers()
		cancel()
		c.setState(StateUnbound)
		return fmt.Errorf("join: message stream: %w: %v", cerrors.ErrTransport, err)
	}

	c.mu.Lock()
	c.cancelStreams = func() {
		cancelUsers()
		cancelMeta()
		cancelSendables()
		cancel()
	}
	c.state = StateBound
	c.mu.Unlock()

	go c.reconcile(streamCtx, users, meta, sendables)

	close(c.ready)
	c.log.Debug("chat bound", "chat", c.id, "members", c.roster.Size())
	return nil
}

// seed loads the roster and metadata once, before the live streams start.
// Malformed roster entries degrade to "no value" instead of aborting the
// rest of the snapshot.
func (c *Chat) seed(ctx context.Context) error {
	entries, err := c.adapter.ReadOnce(ctx, domain.ChatUsersPath(c.id))
	if err != nil {
		return fmt.Errorf("join: roster snapshot: %w: %v", cerrors.ErrTransport, err)
	}
	for userID, value := range entries {
		fields, ok := value.(map[string]any)
		if !ok {
			c.log.Warn("skipping roster entry", "chat", c.id, "user", userID,
				"error", cerrors.ErrReferenceMismatch)
			continue
		}
		user := domain.UserFromRosterFields(userID, fields)
		if userEvent, emitted := c.roster.Apply(userID, &user); emitted {
			c.userEvents.Publish(userEvent)
		}
	}

	fields, err := c.adapter.ReadOnce(ctx, domain.ChatMetaPath(c.id))
	if err != nil {
		return fmt.Errorf("join: meta snapshot: %w: %v", cerrors.ErrTransport, err)
	}
	c.applyMeta(domain.MetaFromFields(fields))
	return nil
}

// reconcile is the single consumer of this chat's change streams.
func (c *Chat) reconcile(ctx context.Context, users, meta, sendables <-chan contract.Change) {
	for users != nil || meta != nil || sendables != nil {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-users:
			if !ok {
				users = nil
				continue
			}
			if change.Err != nil {
				c.fail(change.Err)
				return
			}
			c.applyUserChange(change)
		case change, ok := <-meta:
			if !ok {
				meta = nil
				continue
			}
			if change.Err != nil {
				c.fail(change.Err)
				return
			}
			c.applyMeta(domain.MetaFromFields(change.Fields))
		case change, ok := <-sendables:
			if !ok {
				sendables = nil
				continue
			}
			if change.Err != nil {
				c.fail(change.Err)
				return
			}
			c.applySendable(change)
		}
	}
}

// fail broadcasts a terminal upstream error to every stream exactly once.
func (c *Chat) fail(err error) {
	err = fmt.Errorf("%w: %v", cerrors.ErrTransport, err)
	c.log.Warn("backend stream failed", "chat", c.id, "error", err)
	c.messages.Fail(err)
	c.typing.Fail(err)
	c.receipts.Fail(err)
	c.userEvents.Fail(err)
	c.metaChanges.Fail(err)
	c.nameChanges.Fail(err)
	c.imageURLs.Fail(err)
	c.customData.Fail(err)
}

func (c *Chat) applyUserChange(change contract.Change) {
	if change.Kind == contract.ChangeRemoved {
		if userEvent, emitted := c.roster.Apply(change.ID, nil); emitted {
			c.userEvents.Publish(userEvent)
		}
		return
	}
	if change.Fields == nil {
		c.log.Warn("skipping roster change", "chat", c.id, "user", change.ID,
			"error", cerrors.ErrReferenceMismatch)
		return
	}
	user := domain.UserFromRosterFields(change.ID, change.Fields)
	if userEvent, emitted := c.roster.Apply(change.ID, &user); emitted {
		c.userEvents.Publish(userEvent)
	}
}

// applyMeta replaces the metadata snapshot and feeds the derived field
// streams. Each field stream emits only when its value differs from the
// previously observed one, so redundant notifications never re-emit.
func (c *Chat) applyMeta(meta domain.Meta) {
	prev := c.metaState.Snapshot()
	if !c.metaState.Apply(meta) {
		return
	}
	c.metaChanges.Publish(meta)
	if meta.Name != prev.Name {
		c.nameChanges.Publish(meta.Name)
	}
	if meta.ImageURL != prev.ImageURL {
		c.imageURLs.Publish(meta.ImageURL)
	}
	if !prev.DataEqual(meta.Data) {
		c.customData.Publish(meta.Data)
	}
}

// applySendable classifies an inbound sendable by its type tag and routes
// it to the matching stream. Unrecognized tags are skipped so newer
// variants do not break older consumers.
func (c *Chat) applySendable(change contract.Change) {
	if change.Kind == contract.ChangeRemoved {
		return
	}
	sendable, err := domain.SendableFromFields(change.ID, change.Fields)
	if err != nil {
		c.log.Warn("skipping malformed sendable", "chat", c.id, "error", err)
		return
	}

	switch sendable.Type {
	case domain.SendableTypeMessage:
		c.messages.Publish(event.Message{
			ID:   sendable.ID,
			From: sendable.From,
			Date: sendable.Date,
			Body: sendable.Body,
		})
	case domain.SendableTypeTypingState:
		state, err := sendable.TypingState()
		if err != nil {
			c.log.Warn("skipping typing state", "chat", c.id, "error", err)
			return
		}
		c.stateMu.Lock()
		c.typingStates[sendable.From] = state
		c.stateMu.Unlock()
		c.typing.Publish(event.TypingState{From: sendable.From, State: state, Date: sendable.Date})
	case domain.SendableTypeDeliveryReceipt:
		receipt, messageID, err := sendable.DeliveryReceipt()
		if err != nil {
			c.log.Warn("skipping delivery receipt", "chat", c.id, "error", err)
			return
		}
		if !c.recordReceipt(messageID, sendable.From, receipt) {
			return
		}
		c.receipts.Publish(event.DeliveryReceipt{
			From:      sendable.From,
			MessageID: messageID,
			Type:      receipt,
			Date:      sendable.Date,
		})
	case domain.SendableTypeUserEvent:
		c.applyUserEventSendable(sendable)
	case domain.SendableTypeInvitation:
		// Invitations live in user inboxes; one showing up on the chat
		// message path carries no state to reconcile.
	default:
		c.log.Debug("ignoring unrecognized sendable", "chat", c.id, "type", string(sendable.Type))
	}
}

// recordReceipt advances the per-message per-user receipt state. A read
// receipt is never downgraded by a late received one, and duplicates are
// dropped.
func (c *Chat) recordReceipt(messageID, userID string, receipt domain.DeliveryReceiptType) bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	perUser, ok := c.receiptStates[messageID]
	if !ok {
		perUser = make(map[string]domain.DeliveryReceiptType)
		c.receiptStates[messageID] = perUser
	}
	prev := perUser[userID]
	if receipt == prev || !receipt.Supersedes(prev) {
		return false
	}
	perUser[userID] = receipt
	return true
}

func (c *Chat) applyUserEventSendable(sendable domain.Sendable) {
	action, role, err := sendable.UserEvent()
	if err != nil {
		c.log.Warn("skipping user event", "chat", c.id, "error", err)
		return
	}
	switch action {
	case domain.UserEventRemove:
		if userEvent, emitted := c.roster.Apply(sendable.From, nil); emitted {
			c.userEvents.Publish(userEvent)
		}
	case domain.UserEventAdd, domain.UserEventUpdate:
		user := domain.User{ID: sendable.From, Role: role}
		if existing, ok := c.roster.Get(sendable.From); ok {
			user.Name = existing.Name
			user.ImageURL = existing.ImageURL
		}
		if userEvent, emitted := c.roster.Apply(sendable.From, &user); emitted {
			c.userEvents.Publish(userEvent)
		}
	default:
		c.log.Debug("ignoring unrecognized user event action", "chat", c.id, "action", string(action))
	}
}

// SendResult carries the id assigned to an outgoing sendable, available
// before the write completes, plus the awaitable completion.
type SendResult struct {
	ID   string
	done <-chan error
}

// Await blocks until the backend acknowledged persistence.
func (r *SendResult) Await(ctx context.Context) error {
	select {
	case err, ok := <-r.done:
		if ok && err != nil {
			return fmt.Errorf("send: %w: %v", cerrors.ErrTransport, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send writes the sendable to the chat's message path. The returned
// result exposes the new id synchronously. Retrying a failed send is safe
// with respect to overwrites, since every attempt appends to a fresh
// backend-assigned location, but two successful attempts persist two
// messages; deduplication is the caller's responsibility.
func (c *Chat) Send(ctx context.Context, sendable domain.Sendable) (*SendResult, error) {
	if err := c.requireBound("send"); err != nil {
		return nil, err
	}
	if sendable.From == "" {
		sendable.From = c.me
	}
	if sendable.Date.IsZero() {
		sendable.Date = time.Now().UTC()
	}
	appended, err := c.adapter.Append(ctx, domain.ChatMessagesPath(c.id), sendable.Fields())
	if err != nil {
		return nil, fmt.Errorf("send: %w: %v", cerrors.ErrTransport, err)
	}
	return &SendResult{ID: appended.ID, done: appended.Done}, nil
}

func (c *Chat) SendMessageWithText(ctx context.Context, text string) (*SendResult, error) {
	return c.Send(ctx, domain.NewMessage(c.me, text))
}

func (c *Chat) SendMessageWithBody(ctx context.Context, body map[string]any) (*SendResult, error) {
	return c.Send(ctx, domain.NewMessageWithBody(c.me, body))
}

// SendTypingIndicator reports the local user's typing state. The caller
// owns the debounce policy and is responsible for sending the
// terminating stopped state.
func (c *Chat) SendTypingIndicator(ctx context.Context, state domain.TypingStateType) (*SendResult, error) {
	return c.Send(ctx, domain.NewTypingState(c.me, state))
}

func (c *Chat) SendDeliveryReceipt(ctx context.Context, receipt domain.DeliveryReceiptType, messageID string) (*SendResult, error) {
	return c.Send(ctx, domain.NewDeliveryReceipt(c.me, receipt, messageID))
}

func (c *Chat) MarkReceived(ctx context.Context, message event.Message) (*SendResult, error) {
	return c.SendDeliveryReceipt(ctx, domain.DeliveryReceiptReceived, message.ID)
}

func (c *Chat) MarkRead(ctx context.Context, message event.Message) (*SendResult, error) {
	return c.SendDeliveryReceipt(ctx, domain.DeliveryReceiptRead, message.ID)
}

// AddUsers writes the membership records and, when sendInvite is set,
// appends an invitation to each new member's inbox. A failed invitation
// never rolls back the membership write and does not fail the operation.
func (c *Chat) AddUsers(ctx context.Context, sendInvite bool, users ...domain.User) error {
	if err := c.requireBound("add users"); err != nil {
		return err
	}
	for _, user := range users {
		if user.Role == "" {
			user.Role = domain.RoleMember
		}
		path := domain.ChatUserPath(c.id, user.ID)
		if err := c.adapter.Write(ctx, path, user.RosterFields()); err != nil {
			return fmt.Errorf("add user %s: %w: %v", user.ID, cerrors.ErrTransport, err)
		}
	}
	if sendInvite {
		if err := c.InviteUsers(ctx, users...); err != nil {
			c.log.Warn("invitation delivery failed", "chat", c.id, "error", err)
		}
	}
	return nil
}

func (c *Chat) AddUser(ctx context.Context, sendInvite bool, user domain.User) error {
	return c.AddUsers(ctx, sendInvite, user)
}

// InviteUsers appends a chat invitation to each user's inbox.
func (c *Chat) InviteUsers(ctx context.Context, users ...domain.User) error {
	if err := c.requireBound("invite users"); err != nil {
		return err
	}
	for _, user := range users {
		invite := domain.NewInvitation(c.me, c.id)
		invite.Date = time.Now().UTC()
		appended, err := c.adapter.Append(ctx, domain.UserInboxPath(user.ID), invite.Fields())
		if err != nil {
			return fmt.Errorf("invite %s: %w: %v", user.ID, cerrors.ErrTransport, err)
		}
		result := SendResult{ID: appended.ID, done: appended.Done}
		if err := result.Await(ctx); err != nil {
			return fmt.Errorf("invite %s: %w", user.ID, err)
		}
	}
	return nil
}

func (c *Chat) UpdateUsers(ctx context.Context, users ...domain.User) error {
	if err := c.requireBound("update users"); err != nil {
		return err
	}
	for _, user := range users {
		path := domain.ChatUserPath(c.id, user.ID)
		if err := c.adapter.Write(ctx, path, user.RosterFields()); err != nil {
			return fmt.Errorf("update user %s: %w: %v", user.ID, cerrors.ErrTransport, err)
		}
	}
	return nil
}

func (c *Chat) RemoveUsers(ctx context.Context, userIDs ...string) error {
	if err := c.requireBound("remove users"); err != nil {
		return err
	}
	for _, userID := range userIDs {
		if err := c.adapter.Delete(ctx, domain.ChatUserPath(c.id, userID)); err != nil {
			return fmt.Errorf("remove user %s: %w: %v", userID, cerrors.ErrTransport, err)
		}
	}
	return nil
}

// SetRole assigns a role. The caller must outrank both the assigned role
// and the target user's current role; otherwise the operation fails with
// a permission error and no backend write is issued.
func (c *Chat) SetRole(ctx context.Context, userID string, role domain.RoleType) error {
	if err := c.requireBound("set role"); err != nil {
		return err
	}
	mine, ok := c.roster.RoleTypeForUser(c.me)
	if !ok {
		return fmt.Errorf("set role: caller %s is not a member: %w", c.me, cerrors.ErrPermission)
	}
	if !mine.Outranks(role) {
		return fmt.Errorf("set role: %s cannot assign %s: %w", mine, role, cerrors.ErrPermission)
	}
	if current, isMember := c.roster.RoleTypeForUser(userID); isMember && !mine.Outranks(current) {
		return fmt.Errorf("set role: %s cannot change a %s: %w", mine, current, cerrors.ErrPermission)
	}
	fields := map[string]any{domain.KeyRole: string(role)}
	if err := c.adapter.Write(ctx, domain.ChatUserPath(c.id, userID), fields); err != nil {
		return fmt.Errorf("set role: %w: %v", cerrors.ErrTransport, err)
	}
	return nil
}

func (c *Chat) Users() []domain.User {
	return c.roster.Snapshot()
}

func (c *Chat) GetUsersForRoleType(role domain.RoleType) []domain.User {
	return c.roster.UsersForRoleType(role)
}

func (c *Chat) GetRoleTypeForUser(userID string) (domain.RoleType, bool) {
	return c.roster.RoleTypeForUser(userID)
}

// SetName writes the chat name. The local snapshot is updated only by the
// resulting change notification, never optimistically.
func (c *Chat) SetName(ctx context.Context, name string) error {
	return c.updateMeta(ctx, "set name", map[string]any{domain.KeyName: name})
}

func (c *Chat) SetImageURL(ctx context.Context, imageURL string) error {
	return c.updateMeta(ctx, "set image url", map[string]any{domain.KeyImageURL: imageURL})
}

func (c *Chat) SetCustomData(ctx context.Context, data map[string]any) error {
	return c.updateMeta(ctx, "set custom data", map[string]any{domain.KeyData: data})
}

func (c *Chat) updateMeta(ctx context.Context, op string, fields map[string]any) error {
	if err := c.requireBound(op); err != nil {
		return err
	}
	if err := c.adapter.Write(ctx, domain.ChatMetaPath(c.id), fields); err != nil {
		return fmt.Errorf("%s: %w: %v", op, cerrors.ErrTransport, err)
	}
	return nil
}

func (c *Chat) Meta() domain.Meta {
	return c.metaState.Snapshot()
}

func (c *Chat) Name() string {
	return c.metaState.Snapshot().Name
}

func (c *Chat) ImageURL() string {
	return c.metaState.Snapshot().ImageURL
}

func (c *Chat) CustomData() map[string]any {
	return c.metaState.Snapshot().Data
}

// TypingStateFor returns the last observed typing state for a member.
func (c *Chat) TypingStateFor(userID string) domain.TypingStateType {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if state, ok := c.typingStates[userID]; ok {
		return state
	}
	return domain.TypingStateStopped
}

// ReceiptFor returns the delivery state a recipient reached for a message.
func (c *Chat) ReceiptFor(messageID, userID string) (domain.DeliveryReceiptType, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	receipt, ok := c.receiptStates[messageID][userID]
	return receipt, ok
}

func (c *Chat) SubscribeMessages() *Subscription[event.Message] {
	return c.messages.Subscribe()
}

func (c *Chat) SubscribeTypingStates() *Subscription[event.TypingState] {
	return c.typing.Subscribe()
}

func (c *Chat) SubscribeDeliveryReceipts() *Subscription[event.DeliveryReceipt] {
	return c.receipts.Subscribe()
}

func (c *Chat) SubscribeUserEvents() *Subscription[event.UserEvent] {
	return c.userEvents.Subscribe()
}

func (c *Chat) SubscribeMeta() *Subscription[domain.Meta] {
	return c.metaChanges.Subscribe()
}

func (c *Chat) SubscribeNameChanges() *Subscription[string] {
	return c.nameChanges.Subscribe()
}

func (c *Chat) SubscribeImageURLChanges() *Subscription[string] {
	return c.imageURLs.Subscribe()
}

func (c *Chat) SubscribeCustomDataChanges() *Subscription[map[string]any] {
	return c.customData.Subscribe()
}

// Leave removes the local user from the roster and closes the chat. Once
// the membership write is acknowledged every stream for this chat is
// terminated and further operations fail. Leaving an already closed chat
// is a no-op.
func (c *Chat) Leave(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return nil
	case StateBound:
		c.state = StateLeaving
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		return fmt.Errorf("leave: %w", cerrors.ErrInvalidState)
	}

	if err := c.adapter.Delete(ctx, domain.ChatUserPath(c.id, c.me)); err != nil {
		c.setState(StateBound)
		return fmt.Errorf("leave: %w: %v", cerrors.ErrTransport, err)
	}
	c.Close()
	return nil
}

// Close releases every stream and backend listener held by this chat.
// Idempotent.
func (c *Chat) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	cancel := c.cancelStreams
	c.cancelStreams = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.messages.Close()
	c.typing.Close()
	c.receipts.Close()
	c.userEvents.Close()
	c.metaChanges.Close()
	c.nameChanges.Close()
	c.imageURLs.Close()
	c.customData.Close()

	c.roster.Clear()
	c.metaState.Clear()
	c.stateMu.Lock()
	c.typingStates = make(map[string]domain.TypingStateType)
	c.receiptStates = make(map[string]map[string]domain.DeliveryReceiptType)
	c.stateMu.Unlock()
	c.log.Debug("chat closed", "chat", c.id)
}

func (c *Chat) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// requireBound fails fast for operations issued outside the bound state;
// nothing is ever queued.
func (c *Chat) requireBound(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateBound:
		return nil
	case StateClosed:
		return fmt.Errorf("%s: %w", op, cerrors.ErrClosedChat)
	default:
		return fmt.Errorf("%s: %w", op, cerrors.ErrInvalidState)
	}
}
