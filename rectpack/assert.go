package rectpack

import "fmt"

// AssertFunc 在内部不变量被破坏时被调用，msg 描述了失败的检查。
// 它可以 panic、记录日志或者直接返回；返回时当前操作以
// *InvariantError 结束，打包器之后的 Pack 调用都会返回同一个错误。
type AssertFunc func(msg string)

// InvariantError 表示打包器内部状态损坏。这是打包器的 bug，不是调用方输入的问题。
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "rectpack: invariant violated: " + e.Msg
}

// asserter 记录第一次失败，并把失败交给调用方提供的钩子
type asserter struct {
	hook AssertFunc
	err  *InvariantError
}

// that 检查条件，失败时返回 false
func (a *asserter) that(ok bool, format string, args ...any) bool {
	if ok {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if a.err == nil {
		a.err = &InvariantError{Msg: msg}
	}
	Logger().Error("rectpack invariant violated", "msg", msg)
	if a.hook == nil {
		panic(a.err)
	}
	a.hook(msg)
	return false
}

// failed 返回记录下来的失败，没有失败时返回 nil
func (a *asserter) failed() error {
	if a.err == nil {
		return nil
	}
	return a.err
}
