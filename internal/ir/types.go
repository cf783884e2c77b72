/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
    `strconv`
    `strings`

    `fortio.org/safecast`
)

type TypeKind uint8

const (
    K_void TypeKind = iota
    K_int
    K_ptr
)

// Type is a first-class IR type. Integer types carry their bit width.
type Type struct {
    Kind TypeKind
    Bits uint8
}

var (
    Void = Type { Kind: K_void }
    I1   = Type { Kind: K_int, Bits: 1 }
    I8   = Type { Kind: K_int, Bits: 8 }
    I16  = Type { Kind: K_int, Bits: 16 }
    I32  = Type { Kind: K_int, Bits: 32 }
    I64  = Type { Kind: K_int, Bits: 64 }
    Ptr  = Type { Kind: K_ptr, Bits: 64 }
)

// ParseType parses the textual form of a type, such as "i32", "ptr" or "void".
func ParseType(s string) (Type, error) {
    switch {
        case s == "void"            : return Void, nil
        case s == "ptr"             : return Ptr, nil
        case !strings.HasPrefix(s, "i") : return Void, fmt.Errorf("unknown type %q", s)
    }

    /* integer types, iN */
    n, err := strconv.Atoi(s[1:])
    if err != nil {
        return Void, fmt.Errorf("unknown type %q", s)
    }

    /* the width must fit in a byte and be one of the supported widths */
    bits, err := safecast.Conv[uint8](n)
    if err != nil {
        return Void, fmt.Errorf("integer width out of range: %s", s)
    }

    /* check for supported widths */
    switch bits {
        case 1, 8, 16, 32, 64 : return Type { Kind: K_int, Bits: bits }, nil
        default               : return Void, fmt.Errorf("unsupported integer width: %s", s)
    }
}

func (self Type) IsInt() bool {
    return self.Kind == K_int
}

func (self Type) IsVoid() bool {
    return self.Kind == K_void
}

func (self Type) String() string {
    switch self.Kind {
        case K_void : return "void"
        case K_ptr  : return "ptr"
        case K_int  : return "i" + strconv.Itoa(int(self.Bits))
        default     : panic(fmt.Sprintf("invalid type kind: %d", self.Kind))
    }
}

// Wrap truncates v to the width of the type. i1 values are kept as 0 or 1,
// wider integers are sign-extended back to 64 bits after truncation.
func (self Type) Wrap(v int64) int64 {
    switch {
        case self.Kind != K_int : return v
        case self.Bits == 1     : return v & 1
        case self.Bits >= 64    : return v
    }

    /* truncate and sign-extend */
    sh := 64 - uint(self.Bits)
    return (v << sh) >> sh
}
