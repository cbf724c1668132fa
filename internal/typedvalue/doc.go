// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package typedvalue wraps text pulled out of a record as one of a small set of
// semantic types so it can be ordered, filtered and grouped by meaning rather
// than by bytes.
//
// A Value is valid by construction: Parse either returns a fully parsed value
// or a *ParseError. Values of different kinds are never comparable; asking to
// compare them is a programming error and panics with *KindMismatchError.
package typedvalue
