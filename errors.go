/*
 * Copyright 2021 ByteDance Inc.
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

package optir

import (
    `fmt`
)

// LoadError occures when a module cannot be read or parsed. Err is either an
// *irtext.ParseError or the underlying I/O error.
type LoadError struct {
    Path string
    Err  error
}

func (self *LoadError) Error() string {
    return fmt.Sprintf("cannot load %s: %v", self.Path, self.Err)
}

func (self *LoadError) Unwrap() error {
    return self.Err
}
