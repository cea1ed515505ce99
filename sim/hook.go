package sim

// HookPos names a point in a hookable object where hooks run.
type HookPos struct {
	Name string
}

// HookCtx describes the point at which hooks run. Item is what the object is
// working on; Detail carries extra information some positions provide.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is an object that runs hooks at some of its positions.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
}

// Engine hook positions. The item is the event.
var (
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	HookPosAfterEvent  = &HookPos{Name: "AfterEvent"}
)

// A Hook observes a hookable object. Hooks must not change the object.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a function to a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hooks of an object and runs them in the order they
// were accepted. Embed it to implement Hookable.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook adds a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks have been accepted.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook runs every hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
