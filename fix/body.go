/*
fixdecoder — FIX protocol decoder tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package fix

// Body is the message-type specific payload. Exactly one variant is active
// per message and it is chosen from the MsgType when the message is made.
//
// Supporting a new message type means adding a variant that implements
// Body and a case in newBody.
type Body interface {
	Component
	MsgType() MsgType
	Validate() error
}

func newBody(msgType MsgType) Body {
	switch msgType {
	case MsgTypeHeartbeat:
		return &Heartbeat{}
	case MsgTypeLogon:
		return &Logon{}
	case MsgTypeNewOrderSingle:
		return &NewOrderSingle{}
	case MsgTypeExecutionReport:
		return &ExecutionReport{}
	case MsgTypeOrderCancelRequest:
		return &OrderCancelRequest{}
	default:
		return &Other{msgType: msgType}
	}
}
