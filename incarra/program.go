package incarra

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Dependencies wires substrate services into the record program.
type Dependencies struct {
	RecordStore RecordStore
	Clock       Clock
	EventSink   EventSink

	// Namespace prefixes every derived record address. Empty means
	// DefaultNamespace.
	Namespace string
}

// Program owns the record lifecycle and persistence ordering. All
// mutations pass through Dispatch; reads are side-effect free projections.
type Program struct {
	store     RecordStore
	clock     Clock
	events    EventSink
	namespace string
}

func NewProgram(deps Dependencies) (*Program, error) {
	if deps.RecordStore == nil {
		return nil, fmt.Errorf("new program: %w", ErrMissingRecordStore)
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("new program: %w", ErrMissingClock)
	}
	if deps.EventSink == nil {
		deps.EventSink = noopEventSink{}
	}
	namespace := deps.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if len(namespace) > MaxNamespaceLen {
		return nil, fmt.Errorf(
			"new program: %w: field=namespace len=%d max=%d",
			ErrFieldTooLong,
			len(namespace),
			MaxNamespaceLen,
		)
	}
	return &Program{
		store:     deps.RecordStore,
		clock:     deps.Clock,
		events:    deps.EventSink,
		namespace: namespace,
	}, nil
}

// Namespace returns the namespace record addresses derive under.
func (p *Program) Namespace() string {
	return p.namespace
}

// RecordIDFor returns the ledger address owner's record derives to under
// this program's namespace.
func (p *Program) RecordIDFor(owner OwnerID) RecordID {
	return DeriveRecordID(p.namespace, owner)
}

// Result carries the record after a dispatch together with the events the
// transition produced, in publish order.
type Result struct {
	Record Record
	Events []Event
}

func publishEvent(ctx context.Context, sink EventSink, event Event) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}
	if err := sink.Publish(ctx, event); err != nil {
		return errors.Join(
			ErrEventPublish,
			fmt.Errorf(
				"type=%s record_id=%s: %w",
				event.Type,
				event.RecordID,
				err,
			),
		)
	}
	return nil
}

func sideEffectContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	if ctx.Err() != nil {
		return context.WithoutCancel(ctx)
	}
	return ctx
}

// Dispatch executes a typed command against the record store. The record
// in the result is the persisted successor; when only event publication
// failed the record is still durable and the error unwraps to
// ErrEventPublish.
func (p *Program) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if ctx == nil {
		return Result{}, ErrContextNil
	}
	if isNilCommand(cmd) {
		return Result{}, ErrCommandNil
	}
	if reflect.ValueOf(cmd).Kind() == reflect.Pointer {
		return Result{}, fmt.Errorf("%w: kind=%s payload=%T", ErrCommandInvalid, cmd.Kind(), cmd)
	}

	switch command := cmd.(type) {
	case InitializeAgent:
		return p.dispatchInitialize(ctx, command)
	case RecordInteraction:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyInteraction(prev, command, now)
		})
	case AddKnowledgeArea:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyAddKnowledgeArea(prev, command, now)
		})
	case UpdatePersonality:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyUpdatePersonality(prev, command, now)
		})
	case VerifyIdentity:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyVerifyIdentity(prev, command, now)
		})
	case AddCredential:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyAddCredential(prev, command, now)
		})
	case UnlockAchievement:
		return p.mutate(ctx, command.Caller, command.Owner, true, func(prev Record, now int64) (Record, []Event, error) {
			return applyUnlockAchievement(prev, command, now)
		})
	case DeactivateAgent:
		return p.mutate(ctx, command.Caller, command.Owner, false, func(prev Record, now int64) (Record, []Event, error) {
			return applyDeactivate(prev, now)
		})
	default:
		switch kind := cmd.Kind(); kind {
		case CommandKindInitializeAgent,
			CommandKindRecordInteraction,
			CommandKindAddKnowledgeArea,
			CommandKindUpdatePersonality,
			CommandKindVerifyIdentity,
			CommandKindAddCredential,
			CommandKindUnlockAchievement,
			CommandKindDeactivateAgent:
			return Result{}, fmt.Errorf("%w: kind=%s payload=%T", ErrCommandInvalid, kind, cmd)
		default:
			return Result{}, fmt.Errorf("%w: %s", ErrCommandUnsupported, kind)
		}
	}
}

func isNilCommand(cmd Command) bool {
	if cmd == nil {
		return true
	}

	value := reflect.ValueOf(cmd)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

func (p *Program) dispatchInitialize(ctx context.Context, cmd InitializeAgent) (Result, error) {
	sideEffectCtx := func() context.Context { return sideEffectContext(ctx) }

	now, err := p.clock.Now(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read clock: %w", err)
	}
	rec, err := newRecord(p.namespace, cmd, now)
	if err != nil {
		return Result{}, err
	}
	if err := ValidateRecord(rec); err != nil {
		return Result{}, err
	}
	if err := p.store.Create(sideEffectCtx(), rec); err != nil {
		return Result{}, fmt.Errorf("create record %q: %w", rec.ID, err)
	}
	rec.Version = 1

	events := []Event{newAgentCreatedEvent(rec, now)}
	var eventErr error
	for _, event := range events {
		eventErr = errors.Join(eventErr, publishEvent(sideEffectCtx(), p.events, event))
	}
	return Result{Record: rec, Events: events}, eventErr
}

// mutate is the shared load, authorize, apply, validate, persist, publish
// sequence behind every mutation of an existing record. An apply that
// returns no events is a recognized no-op: nothing is written and the
// stored record is returned unchanged.
func (p *Program) mutate(
	ctx context.Context,
	caller OwnerID,
	owner OwnerID,
	requireActive bool,
	apply func(prev Record, now int64) (Record, []Event, error),
) (Result, error) {
	if caller == "" {
		return Result{}, fmt.Errorf("%w: field=caller", ErrFieldEmpty)
	}
	if owner == "" {
		owner = caller
	}
	sideEffectCtx := func() context.Context { return sideEffectContext(ctx) }

	prev, err := p.store.Load(sideEffectCtx(), p.RecordIDFor(owner))
	if err != nil {
		return Result{}, fmt.Errorf("load record: %w", err)
	}
	if prev.Owner != caller {
		return Result{}, fmt.Errorf(
			"%w: owner=%q caller=%q record_id=%q",
			ErrUnauthorized,
			prev.Owner,
			caller,
			prev.ID,
		)
	}
	if requireActive && !prev.IsActive {
		return Result{Record: prev}, fmt.Errorf("%w: record_id=%q", ErrRecordInactive, prev.ID)
	}

	now, err := p.clock.Now(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read clock: %w", err)
	}
	next, events, err := apply(prev, now)
	if err != nil {
		return Result{Record: prev}, err
	}
	if len(events) == 0 {
		return Result{Record: next}, nil
	}
	if err := ValidateRecord(next); err != nil {
		return Result{}, err
	}
	if err := ValidateSuccession(prev, next); err != nil {
		return Result{}, err
	}
	if err := p.store.Save(sideEffectCtx(), next); err != nil {
		return Result{}, fmt.Errorf("save record %q: %w", next.ID, err)
	}
	next.Version++

	var eventErr error
	for _, event := range events {
		eventErr = errors.Join(eventErr, publishEvent(sideEffectCtx(), p.events, event))
	}
	return Result{Record: next, Events: events}, eventErr
}

// Record loads the owner's record without side effects.
func (p *Program) Record(ctx context.Context, owner OwnerID) (Record, error) {
	if ctx == nil {
		return Record{}, ErrContextNil
	}
	if owner == "" {
		return Record{}, fmt.Errorf("%w: field=owner", ErrFieldEmpty)
	}
	rec, err := p.store.Load(ctx, p.RecordIDFor(owner))
	if err != nil {
		return Record{}, fmt.Errorf("load record: %w", err)
	}
	return rec, nil
}

// Context projects the owner's record into its companion context.
func (p *Program) Context(ctx context.Context, owner OwnerID) (ContextView, error) {
	rec, err := p.Record(ctx, owner)
	if err != nil {
		return ContextView{}, err
	}
	return NewContextView(rec), nil
}

// Profile projects the owner's record into its public profile.
func (p *Program) Profile(ctx context.Context, owner OwnerID) (ProfileView, error) {
	rec, err := p.Record(ctx, owner)
	if err != nil {
		return ProfileView{}, err
	}
	return NewProfileView(rec), nil
}
