package singleton

import (
	"reflect"
	"sync"
)

type InterceptorConfiguration struct {
	FallbackAccessor      ReferenceAccessor
	SilenceDetachWarnings bool
}

type InterceptorOption func(*InterceptorConfiguration)

var (
	// WithFallbackAccessor replaces the default per-type slot adapter used
	// for governed types that define no accessor methods of their own.
	WithFallbackAccessor = func(acc ReferenceAccessor) InterceptorOption {
		return func(conf *InterceptorConfiguration) { conf.FallbackAccessor = acc }
	}

	// SilenceDetachWarnings drops the warning logged when Detach is called
	// with an instance the default adapter does not hold.
	SilenceDetachWarnings InterceptorOption = func(conf *InterceptorConfiguration) { conf.SilenceDetachWarnings = true }
)

// New returns an Interceptor with its own lock registry and storage.
// Instances governed by different interceptors are independent of each other.
func New(opts ...InterceptorOption) *Interceptor {
	conf := InterceptorConfiguration{}

	for _, opt := range opts {
		opt(&conf)
	}

	fallback := conf.FallbackAccessor
	if fallback == nil {
		fallback = new(defaultAdapter)
	}

	return &Interceptor{
		fallback:              fallback,
		silenceDetachWarnings: conf.SilenceDetachWarnings,
	}
}

var (
	defaultInterceptor     *Interceptor
	defaultInterceptorOnce sync.Once
)

// Default returns the process-wide shared Interceptor, created on first use.
func Default() *Interceptor {
	defaultInterceptorOnce.Do(func() {
		defaultInterceptor = New()
	})

	return defaultInterceptor
}

// Interceptor enforces at-most-one-instance-per-key on construction calls
// routed through it. The fast path is lock-free; only a miss serializes on
// the governed type's lock.
type Interceptor struct {
	fallback              ReferenceAccessor
	accessors             sync.Map // reflect.Type -> accessorResolution
	locks                 lockRegistry
	cmu                   sync.Mutex
	cleanups              []instanceCleanup
	silenceDetachWarnings bool
}

type accessorResolution struct {
	acc    ReferenceAccessor
	err    error
	custom bool
}

// GetOrCreate is the construction-interception entry point. The governed
// type is the constructor's first result type; args are passed verbatim to
// the accessor operations and, on a miss, to the constructor itself.
//
// On a hit the constructor is never invoked. On a miss the governed type's
// lock is taken, the lookup re-checked, and only then is the constructor
// run and its result stored, so allocation and initialization happen at
// most once per key across goroutines. A constructor error or panic leaves
// the key absent and a later call free to retry.
func (in *Interceptor) GetOrCreate(constructor any, args ...any) (any, error) {
	rec, err := newRecord(constructor)
	if err != nil {
		return nil, err
	}

	if err := rec.checkArgs(args); err != nil {
		return nil, newConstructionError(err, rec.typeName)
	}

	res, err := in.resolve(rec.governedType)
	if err != nil {
		return nil, err
	}

	acc := res.acc

	instance, err := acc.LookupRef(rec.governedType, args...)
	if err != nil {
		return nil, newAccessorError(accessorOpLookup, rec.typeName, err)
	}

	if instance != nil {
		return instance, nil
	}

	mu := in.locks.of(rec.governedType)
	mu.Lock()
	defer mu.Unlock()

	// another goroutine may have won the construction race between the
	// optimistic lookup and the lock acquisition
	instance, err = acc.LookupRef(rec.governedType, args...)
	if err != nil {
		return nil, newAccessorError(accessorOpLookup, rec.typeName, err)
	}

	if instance != nil {
		return instance, nil
	}

	instance, cleanup, err := rec.call(args)
	if err != nil {
		return nil, err
	}

	if err := acc.StoreRef(rec.governedType, instance, args...); err != nil {
		return nil, newAccessorError(accessorOpStore, rec.typeName, err)
	}

	if cleanup != nil {
		in.cmu.Lock()
		in.cleanups = append(in.cleanups, instanceCleanup{instance: instance, fn: cleanup})
		in.cmu.Unlock()
	}

	return instance, nil
}

// Detach removes the association between instance and its key so a future
// construction call builds a replacement. Existing references to the
// detached instance stay valid. Detaching an instance that was never stored
// or was already detached is a no-op.
func (in *Interceptor) Detach(instance any) error {
	if instance == nil {
		return nil
	}

	t := reflect.TypeOf(instance)

	res, err := in.resolve(t)
	if err != nil {
		return err
	}

	switch {
	case res.custom:
		acc := res.acc
		// prefer the live instance as receiver, detach may depend on its state
		if live, ok := instance.(ReferenceAccessor); ok {
			acc = live
		}

		if err := acc.DetachRef(instance); err != nil {
			return newAccessorError(accessorOpDetach, t.String(), err)
		}
	default:
		if d, ok := res.acc.(*defaultAdapter); ok {
			if !d.detach(instance) && !in.silenceDetachWarnings {
				logger().Warn("detach of an instance that is not registered", "type", t.String())
			}
		} else if err := res.acc.DetachRef(instance); err != nil {
			return newAccessorError(accessorOpDetach, t.String(), err)
		}
	}

	in.runCleanup(instance)

	return nil
}

// Check reports the configuration error for t eagerly instead of at the
// first construction attempt.
func (in *Interceptor) Check(t reflect.Type) error {
	_, err := in.resolve(t)

	return err
}

// Reset detaches every record held by the default adapter and runs pending
// cleanups. Storage managed by custom accessors belongs to the governed
// types and is left alone.
func (in *Interceptor) Reset() {
	if d, ok := in.fallback.(*defaultAdapter); ok {
		d.clear()
	}

	in.cmu.Lock()
	pending := in.cleanups
	in.cleanups = nil
	in.cmu.Unlock()

	for _, c := range pending {
		c.fn.CallWithRecovery()
	}
}

// resolve returns the effective accessor for a governed type, caching the
// outcome so the configuration check and zero-receiver probing run once per
// type.
func (in *Interceptor) resolve(t reflect.Type) (accessorResolution, error) {
	if cached, ok := in.accessors.Load(t); ok {
		res := cached.(accessorResolution)

		return res, res.err
	}

	acc, err := resolveAccessor(t)
	res := accessorResolution{acc: acc, err: err, custom: acc != nil}

	if res.acc == nil {
		res.acc = in.fallback
	}

	cached, _ := in.accessors.LoadOrStore(t, res)
	res = cached.(accessorResolution)

	return res, res.err
}

func (in *Interceptor) runCleanup(instance any) {
	var fn Cleanup

	in.cmu.Lock()
	for i, c := range in.cleanups {
		if identical(c.instance, instance) {
			fn = c.fn
			in.cleanups = append(in.cleanups[:i], in.cleanups[i+1:]...)

			break
		}
	}
	in.cmu.Unlock()

	if fn != nil {
		fn.CallWithRecovery()
	}
}
