package singleton

// Cleanup releases resources held by a singleton instance. A constructor of
// form func(...) (T, func(), error) returns one; it is remembered with the
// instance and invoked when the instance is detached or the interceptor is
// reset. Construction beyond that is never torn down automatically.
type Cleanup func()

// CallWithRecovery shields the caller from a panicking cleanup; the
// recovered value is logged through the package error logger.
func (fn Cleanup) CallWithRecovery() {
	defer func() {
		if rp := recover(); rp != nil {
			logger().Error("recovered from panic inside singleton cleanup", "error", rp)
		}
	}()

	fn()
}

type instanceCleanup struct {
	instance any
	fn       Cleanup
}
