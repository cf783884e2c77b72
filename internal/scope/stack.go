/*
 * Copyright 2022 CloudWeGo Authors
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

package scope

type frame map[string]struct{}

// Stack is a stack of scopes, each scope is a set of declared names.
type Stack struct {
	frames []frame
}

func (s *Stack) Push() {
	s.frames = append(s.frames, make(frame))
}

func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		panic("scope: pop from an empty stack")
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of scopes on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Declare adds name to the innermost scope. Declaring a name twice in the
// same scope is allowed.
func (s *Stack) Declare(name string) {
	if len(s.frames) == 0 {
		panic("scope: declaration outside of any scope")
	}
	s.frames[len(s.frames)-1][name] = struct{}{}
}

// Lookup reports whether name is visible, searching from the innermost scope
// outwards.
func (s *Stack) Lookup(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			return true
		}
	}
	return false
}
