// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Msg is the call context of a contract method: the caller and attached value
type Msg struct {
	From  common.Address
	Value uint256.Int
}

// ParseMethod builds an ABI method from a signature such as
// "transfer(address,uint256)" and optional output types. Tuple types are
// not supported.
func ParseMethod(signature string, outputs ...string) (abi.Method, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return abi.Method{}, fmt.Errorf("%w: %q", ErrInvalidSignature, signature)
	}
	name := signature[:open]
	inputs, err := parseArguments(signature[open+1 : len(signature)-1])
	if err != nil {
		return abi.Method{}, fmt.Errorf("%w: %q: %w", ErrInvalidSignature, signature, err)
	}
	outs, err := parseArguments(strings.Join(outputs, ","))
	if err != nil {
		return abi.Method{}, fmt.Errorf("%w: %q: %w", ErrInvalidSignature, signature, err)
	}
	return abi.NewMethod(
		name,
		name,
		abi.Function,
		"nonpayable",
		false,
		false,
		inputs,
		outs,
	), nil
}

func parseArguments(list string) (abi.Arguments, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	args := make(abi.Arguments, 0, len(parts))
	for i, part := range parts {
		typ, err := abi.NewType(strings.TrimSpace(part), "", nil)
		if err != nil {
			return nil, err
		}
		args = append(args, abi.Argument{
			Name: fmt.Sprintf("arg%d", i),
			Type: typ,
		})
	}
	return args, nil
}

// EncodeCall packs calldata for signature: the 4-byte selector followed by
// the ABI encoded arguments
func EncodeCall(signature string, args ...any) ([]byte, error) {
	method, err := ParseMethod(signature)
	if err != nil {
		return nil, err
	}
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", signature, err)
	}
	ret := make([]byte, 0, len(method.ID)+len(packed))
	ret = append(ret, method.ID...)
	return append(ret, packed...), nil
}

// DecodeResult unpacks the return data of a call made with EncodeCall
func DecodeResult(data []byte, outputs ...string) ([]any, error) {
	args, err := parseArguments(strings.Join(outputs, ","))
	if err != nil {
		return nil, err
	}
	return args.Unpack(data)
}

// Handler implements a contract method over decoded ABI arguments
type Handler func(msg Msg, args Args) ([]any, error)

type binding struct {
	method  abi.Method
	payable bool
	handler Handler
}

// Dispatcher routes calldata to method handlers by selector
type Dispatcher struct {
	to      common.Address
	methods map[[4]byte]*binding
}

func NewDispatcher(to common.Address) *Dispatcher {
	return &Dispatcher{
		to:      to,
		methods: make(map[[4]byte]*binding),
	}
}

// Register binds a method signature to a handler. It panics on an invalid
// signature, which is a programming error.
func (d *Dispatcher) Register(
	signature string,
	outputs []string,
	payable bool,
	handler Handler,
) {
	method, err := ParseMethod(signature, outputs...)
	if err != nil {
		panic(err)
	}
	d.methods[[4]byte(method.ID)] = &binding{
		method:  method,
		payable: payable,
		handler: handler,
	}
}

// Dispatch decodes calldata, invokes the matching handler and encodes its results
func (d *Dispatcher) Dispatch(msg Msg, data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, &RevertError{To: d.to, Err: ErrInvalidCalldata}
	}
	b, ok := d.methods[[4]byte(data[:4])]
	if !ok {
		return nil, &RevertError{To: d.to, Err: ErrUnknownSelector}
	}
	if !b.payable && !msg.Value.IsZero() {
		return nil, &RevertError{To: d.to, Method: b.method.Name, Err: ErrNonPayable}
	}
	args, err := b.method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, &RevertError{
			To:     d.to,
			Method: b.method.Name,
			Err:    fmt.Errorf("%w: %w", ErrInvalidCalldata, err),
		}
	}
	outs, err := b.handler(msg, Args(args))
	if err != nil {
		return nil, &RevertError{To: d.to, Method: b.method.Name, Err: err}
	}
	if len(b.method.Outputs) == 0 {
		return nil, nil
	}
	return b.method.Outputs.Pack(outs...)
}

// Args is the decoded argument list of a call. Accessors assume the types
// declared in the registered signature.
type Args []any

func (a Args) Address(i int) common.Address {
	return a[i].(common.Address)
}

func (a Args) Addresses(i int) []common.Address {
	return a[i].([]common.Address)
}

func (a Args) Bool(i int) bool {
	return a[i].(bool)
}

func (a Args) Uint8(i int) uint8 {
	return a[i].(uint8)
}

func (a Args) String(i int) string {
	return a[i].(string)
}

func (a Args) Bytes(i int) []byte {
	return a[i].([]byte)
}

func (a Args) BytesSlice(i int) [][]byte {
	return a[i].([][]byte)
}

func (a Args) Hash(i int) common.Hash {
	return common.Hash(a[i].([32]byte))
}

func (a Args) Uint256(i int) uint256.Int {
	v, _ := uint256.FromBig(a[i].(*big.Int))
	return *v
}

func (a Args) Uint256s(i int) []uint256.Int {
	src := a[i].([]*big.Int)
	ret := make([]uint256.Int, len(src))
	for idx, b := range src {
		v, _ := uint256.FromBig(b)
		ret[idx] = *v
	}
	return ret
}

// Uint64 narrows a uint256 argument, failing if it does not fit
func (a Args) Uint64(i int) (uint64, error) {
	b := a[i].(*big.Int)
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: argument %d overflows uint64", ErrInvalidCalldata, i)
	}
	return b.Uint64(), nil
}

// Big converts an amount for ABI encoding
func Big(v uint256.Int) *big.Int {
	return v.ToBig()
}

// BigUint64 converts a uint64 for ABI encoding as uint256
func BigUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
