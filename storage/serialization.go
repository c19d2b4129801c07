// Copyright 2025 Poiesic Systems
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


package storage

import (
	"github.com/poiesic/prospect/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCompanyProfile serializes a CompanyProfile to bytes.
func MarshalCompanyProfile(profile *core.CompanyProfile) []byte {
	buf := make([]byte, core.CompanyProfileMUS.Size(*profile))
	core.CompanyProfileMUS.Marshal(*profile, buf)
	return buf
}

// UnmarshalCompanyProfile deserializes a CompanyProfile from bytes.
func UnmarshalCompanyProfile(data []byte) (*core.CompanyProfile, error) {
	profile, _, err := core.CompanyProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// MarshalContactProfile serializes a ContactProfile to bytes.
func MarshalContactProfile(contact *core.ContactProfile) []byte {
	buf := make([]byte, core.ContactProfileMUS.Size(*contact))
	core.ContactProfileMUS.Marshal(*contact, buf)
	return buf
}

// UnmarshalContactProfile deserializes a ContactProfile from bytes.
func UnmarshalContactProfile(data []byte) (*core.ContactProfile, error) {
	contact, _, err := core.ContactProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
