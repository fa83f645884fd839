// Package command はチャットコマンドのレジストリとディスパッチ、
// およびワンショット継続（conversation state）を実装します。
package command

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ArgKind は引数の型です。
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
)

// ArgSpec は1つのコマンド引数の宣言です。
// レジストリへの登録時に検証されます（名前による動的発見はしません）。
type ArgSpec struct {
	Name     string
	Kind     ArgKind
	Required bool
	Default  string // 省略時の値。Required=trueでは指定不可。
}

// Handler はコマンドの実装です。
type Handler func(ctx context.Context, inv *Invocation) error

// Spec は1つのコマンドの宣言です。
type Spec struct {
	Name    string
	Args    []ArgSpec
	Handler Handler
}

// Invocation は1回のコマンド呼び出しです。
type Invocation struct {
	UserID     string
	ReplyToken string

	args  map[string]string
	kinds map[string]ArgKind
}

// Has は引数が（明示的またはデフォルトで）束縛されているかを返します。
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.args[name]
	return ok
}

// String は文字列引数の値を返します。未束縛の場合は空文字列です。
func (inv *Invocation) String(name string) string {
	return inv.args[name]
}

// Int は整数引数の値を返します。値はディスパッチ時に検証済みです。
func (inv *Invocation) Int(name string) int {
	n, _ := strconv.Atoi(inv.args[name])
	return n
}

// Registry はコマンド名からハンドラへの明示的なマッピングです。
type Registry struct {
	cmds map[string]Spec
}

// NewRegistry は空のRegistryを生成します。
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Spec)}
}

// Register はコマンドを登録します。宣言の誤りは登録時に検出します。
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("command name must not be empty")
	}
	if spec.Handler == nil {
		return fmt.Errorf("command %q: handler must not be nil", spec.Name)
	}
	if _, exists := r.cmds[spec.Name]; exists {
		return fmt.Errorf("command %q: already registered", spec.Name)
	}
	seen := make(map[string]struct{}, len(spec.Args))
	for _, arg := range spec.Args {
		if arg.Name == "" {
			return fmt.Errorf("command %q: argument name must not be empty", spec.Name)
		}
		if _, dup := seen[arg.Name]; dup {
			return fmt.Errorf("command %q: duplicate argument %q", spec.Name, arg.Name)
		}
		seen[arg.Name] = struct{}{}
		if arg.Required && arg.Default != "" {
			return fmt.Errorf("command %q: required argument %q must not have a default", spec.Name, arg.Name)
		}
		if arg.Kind == ArgInt && arg.Default != "" {
			if _, err := strconv.Atoi(arg.Default); err != nil {
				return fmt.Errorf("command %q: argument %q has non-integer default %q", spec.Name, arg.Name, arg.Default)
			}
		}
	}
	r.cmds[spec.Name] = spec
	return nil
}

// MustRegister はRegisterが失敗した場合にpanicします。起動時の配線用です。
func (r *Registry) MustRegister(spec Spec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Dispatch は `cmd=<name>&<k>=<v>...` 形式のペイロードを解析してハンドラを実行します。
// 未知のコマンドはエラーではなくno-opです。
func (r *Registry) Dispatch(ctx context.Context, userID, replyToken, data string) error {
	values, err := url.ParseQuery(data)
	if err != nil {
		return fmt.Errorf("parse postback data: %w", err)
	}
	name := values.Get("cmd")
	spec, ok := r.cmds[name]
	if !ok {
		return nil
	}

	inv := &Invocation{
		UserID:     userID,
		ReplyToken: replyToken,
		args:       make(map[string]string, len(spec.Args)),
		kinds:      make(map[string]ArgKind, len(spec.Args)),
	}
	for _, arg := range spec.Args {
		inv.kinds[arg.Name] = arg.Kind
		if !values.Has(arg.Name) {
			if arg.Required {
				return fmt.Errorf("command %q: missing required argument %q", name, arg.Name)
			}
			if arg.Default != "" {
				inv.args[arg.Name] = arg.Default
			}
			continue
		}
		v := values.Get(arg.Name)
		if arg.Kind == ArgInt {
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("command %q: argument %q is not an integer: %q", name, arg.Name, v)
			}
		}
		inv.args[arg.Name] = v
	}

	return spec.Handler(ctx, inv)
}
