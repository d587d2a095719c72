// Copyright 2025 walteh LLC
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

/*
Package report carries the recoverable side of a run to the operator.

	+-------------+      +--------------+
	| Diagnostic  | ---> |  UserLogger  | ---> pterm console + zerolog
	| (skipped    |      |  FormatStep  |
	|  work unit) |      +--------------+
	+-------------+

Fatal errors never become diagnostics: they are returned as errors before any
output is written. Everything that was skipped while the run continued (a
missing source column, an unknown transform id, a transform that failed) is a
Diagnostic.
*/
package report
